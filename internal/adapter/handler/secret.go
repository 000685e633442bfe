package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/adapter/middleware"
	"github.com/jairft/Bank-service/internal/core/bank"
)

type SecretHandler struct {
	Guard *bank.Guard
}

type SetSecretRequest struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type ChangeSecretRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

func ownerFromLocals(c *fiber.Ctx) (uuid.UUID, bool) {
	ownerID, ok := c.Locals(middleware.LocalOwnerID).(uuid.UUID)
	return ownerID, ok
}

// Set configures the transactional password for the caller's active account.
func (h *SecretHandler) Set(c *fiber.Ctx) error {
	var req SetSecretRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ownerID, ok := ownerFromLocals(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	if err := h.Guard.SetSecret(c.Context(), ownerID, req.Password, req.ConfirmPassword); err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"status": "configured"})
}

// Change replaces the transactional password after verifying the current one.
func (h *SecretHandler) Change(c *fiber.Ctx) error {
	var req ChangeSecretRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ownerID, ok := ownerFromLocals(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	if err := h.Guard.ChangeSecret(c.Context(), ownerID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"status": "changed"})
}

// Status reports NOT_SET, ACTIVE or BLOCKED.
func (h *SecretHandler) Status(c *fiber.Ctx) error {
	ownerID, ok := ownerFromLocals(c)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	status, err := h.Guard.Status(c.Context(), ownerID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"status": status})
}
