package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/core/bank"
	"github.com/jairft/Bank-service/internal/core/domain"
	"github.com/jairft/Bank-service/internal/core/security"
)

// APIKeyStore persists issued API key hashes.
type APIKeyStore interface {
	SaveAPIKey(ctx context.Context, accountID uuid.UUID, keyHash, keyPrefix string) error
}

type AccountHandler struct {
	Accounts bank.AccountStore
	Keys     APIKeyStore
}

type CreateAccountRequest struct {
	OwnerID   string `json:"owner_id"`
	OwnerName string `json:"owner_name"`
	CPF       string `json:"cpf"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// CreateAccount opens an ACTIVE zero-balance account for an owner profile.
// In production this is driven by the user-service registration event; the
// endpoint is the same entry point for manual and integration use.
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.OwnerName == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Owner name is required"})
	}

	ownerID := uuid.New()
	if req.OwnerID != "" {
		parsed, err := uuid.Parse(req.OwnerID)
		if err != nil {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid owner id"})
		}
		ownerID = parsed
	}

	acc := domain.NewAccount(ownerID, req.OwnerName, req.CPF, req.Email, req.Phone)
	if err := h.Accounts.CreateAccount(c.Context(), acc); err != nil {
		slog.Error("Failed to create account", "error", err, "owner", req.OwnerName)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create account"})
	}

	slog.Info("Account created", "id", acc.ID, "owner", req.OwnerName)
	return c.Status(http.StatusCreated).JSON(acc)
}

// Balance returns the current balance of an account.
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	acc, err := h.Accounts.Account(c.Context(), accountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"account_id": acc.ID,
		"balance":    acc.Balance,
		"status":     acc.Status,
	})
}

// IssueAPIKey generates a bearer key for an account. The raw key is shown
// once; only its hash is stored.
func (h *AccountHandler) IssueAPIKey(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	if _, err := h.Accounts.Account(c.Context(), accountID); err != nil {
		return fail(c, err)
	}

	realKey, keyHash, err := security.GenerateAPIKey()
	if err != nil {
		slog.Error("Crypto error generating key", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Crypto error"})
	}

	if err := h.Keys.SaveAPIKey(c.Context(), accountID, keyHash, security.APIKeyPrefix); err != nil {
		slog.Error("Failed to save API key", "error", err, "account_id", accountID)
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save key"})
	}

	slog.Info("API key issued", "account_id", accountID)
	return c.JSON(fiber.Map{
		"api_key": realKey,
		"warning": "Save this now, it will not be shown again.",
	})
}
