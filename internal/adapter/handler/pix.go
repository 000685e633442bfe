package handler

import (
	"context"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/adapter/middleware"
	"github.com/jairft/Bank-service/internal/core/bank"
	"github.com/jairft/Bank-service/internal/core/domain"
)

type PixHandler struct {
	Keys      *bank.KeyDirectory
	Transfers *bank.Transfers
}

type RegisterKeyRequest struct {
	KeyType domain.PixKeyType `json:"key_type"`
}

type ResolveKeyRequest struct {
	KeyType  domain.PixKeyType `json:"key_type"`
	KeyValue string            `json:"key_value"`
}

type TransferRequest struct {
	KeyType     domain.PixKeyType `json:"key_type"`
	KeyValue    string            `json:"key_value"`
	Amount      domain.Money      `json:"amount"`
	Secret      string            `json:"transactional_password"`
	Description string            `json:"description"`
}

// RegisterKey creates a pix key for the authenticated account. The value is
// derived from the owner profile, or generated for RANDOM keys.
func (h *PixHandler) RegisterKey(c *fiber.Ctx) error {
	var req RegisterKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	accountID, ok := c.Locals(middleware.LocalAccountID).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	key, err := h.Keys.Register(c.Context(), accountID, req.KeyType)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(key)
}

// ListKeys returns the authenticated account's keys.
func (h *PixHandler) ListKeys(c *fiber.Ctx) error {
	accountID, ok := c.Locals(middleware.LocalAccountID).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	keys, err := h.Keys.List(c.Context(), accountID)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{"keys": keys})
}

// ResolveKey looks an alias up before the sender confirms a transfer.
func (h *PixHandler) ResolveKey(c *fiber.Ctx) error {
	var req ResolveKeyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	resolved, err := h.Keys.Resolve(c.Context(), req.KeyType, req.KeyValue)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(fiber.Map{
		"owner_name": resolved.OwnerName,
		"key_type":   resolved.Key.Type,
		"key_value":  resolved.Key.Value,
		"bank_info":  resolved.BankInfo,
	})
}

// DeactivateKey turns one of the caller's keys INACTIVE.
func (h *PixHandler) DeactivateKey(c *fiber.Ctx) error {
	return h.keyAction(c, h.Keys.Deactivate)
}

// DeleteKey removes one of the caller's keys.
func (h *PixHandler) DeleteKey(c *fiber.Ctx) error {
	return h.keyAction(c, h.Keys.Delete)
}

func (h *PixHandler) keyAction(c *fiber.Ctx, action func(ctx context.Context, accountID, keyID uuid.UUID) error) error {
	accountID, ok := c.Locals(middleware.LocalAccountID).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	keyID, err := uuid.Parse(c.Params("keyId"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid key id"})
	}

	if err := action(c.Context(), accountID, keyID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// Transfer executes a pix transfer from the authenticated owner's active
// account to the account behind the destination key.
func (h *PixHandler) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	ownerID, ok := c.Locals(middleware.LocalOwnerID).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	receipt, err := h.Transfers.TransferPix(c.Context(), ownerID, req.KeyType, req.KeyValue,
		req.Amount, req.Secret, req.Description)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(receipt)
}
