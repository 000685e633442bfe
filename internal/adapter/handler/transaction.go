package handler

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/adapter/middleware"
	"github.com/jairft/Bank-service/internal/core/bank"
	"github.com/jairft/Bank-service/internal/core/domain"
)

type TransactionHandler struct {
	Transfers *bank.Transfers
}

type DepositRequest struct {
	AccountID   string       `json:"account_id"`
	Amount      domain.Money `json:"amount"`
	Description string       `json:"description"`
}

type WithdrawRequest struct {
	Amount      domain.Money `json:"amount"`
	Secret      string       `json:"transactional_password"`
	Description string       `json:"description"`
}

// Deposit credits any account. No transactional password is required for
// credits; only debits are gated.
func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	accountID, err := uuid.Parse(req.AccountID)
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	txn, err := h.Transfers.Deposit(c.Context(), accountID, req.Amount, req.Description)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(txn)
}

// Withdraw debits the authenticated account after password verification.
func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	var req WithdrawRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	accountID, ok := c.Locals(middleware.LocalAccountID).(uuid.UUID)
	if !ok {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	txn, err := h.Transfers.Withdraw(c.Context(), accountID, req.Amount, req.Secret, req.Description)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(http.StatusCreated).JSON(txn)
}

// History lists an account's ledger entries, newest first.
func (h *TransactionHandler) History(c *fiber.Ctx) error {
	accountID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid account id"})
	}

	history, err := h.Transfers.History(c.Context(), accountID, 50)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(history)
}
