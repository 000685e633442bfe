package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jairft/Bank-service/internal/core/domain"
	"github.com/jairft/Bank-service/internal/core/security"
)

// AuthStore resolves an API key hash to the account it was issued for.
type AuthStore interface {
	AccountByAPIKey(ctx context.Context, keyHash string) (*domain.Account, error)
}

// Locals keys set by Protected.
const (
	LocalAccountID = "account_id"
	LocalOwnerID   = "owner_id"
)

// Protected requires a bearer API key. On success the account and owner ids
// are stored in the request locals for the handlers.
func Protected(store AuthStore) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Missing API key"})
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid header format"})
		}

		acc, err := store.AccountByAPIKey(c.Context(), security.HashKey(parts[1]))
		if err != nil {
			return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid API key"})
		}

		c.Locals(LocalAccountID, acc.ID)
		c.Locals(LocalOwnerID, acc.OwnerID)

		return c.Next()
	}
}
