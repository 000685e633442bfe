package handler

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// statusFor maps the core error taxonomy onto HTTP statuses. Specific kinds
// are checked before ErrTransferFailed so a wrapped cause keeps its meaning.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrKeyNotFound),
		errors.Is(err, domain.ErrEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrSecretLocked):
		return http.StatusLocked
	case errors.Is(err, domain.ErrInvalidSecret),
		errors.Is(err, domain.ErrSecretNotSet):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSecretAlreadySet),
		errors.Is(err, domain.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrNoActiveAccount),
		errors.Is(err, domain.ErrSecretMismatch),
		errors.Is(err, domain.ErrSameSecret),
		errors.Is(err, domain.ErrInvalidSecretFormat),
		errors.Is(err, domain.ErrKeyLimitExceeded),
		errors.Is(err, domain.ErrKeyInactive),
		errors.Is(err, domain.ErrNotKeyOwner),
		errors.Is(err, domain.ErrInvalidKeyValue):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTransferFailed):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
}
