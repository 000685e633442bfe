package bank

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// Transfers orchestrates every balance-changing operation: deposits,
// withdrawals and pix transfers. It owns ledger entry creation and status
// transitions; balances themselves move only inside the AccountStore.
type Transfers struct {
	accounts AccountStore
	keys     *KeyDirectory
	ledger   LedgerStore
	guard    *Guard
	events   EventSink // optional
	now      func() time.Time
}

func NewTransfers(accounts AccountStore, keys *KeyDirectory, ledger LedgerStore, guard *Guard, events EventSink) *Transfers {
	return &Transfers{
		accounts: accounts,
		keys:     keys,
		ledger:   ledger,
		guard:    guard,
		events:   events,
		now:      time.Now,
	}
}

// TransferReceipt is returned to the caller after a transfer reaches a
// terminal state.
type TransferReceipt struct {
	TransactionID string                   `json:"transaction_id"`
	Status        domain.TransactionStatus `json:"status"`
	Amount        domain.Money             `json:"amount"`
	Counterparty  string                   `json:"counterparty"`
	ProcessedAt   time.Time                `json:"processed_at"`
}

// Deposit credits an account and records a COMPLETED ledger entry. No
// transactional password is required; only debits are gated.
func (t *Transfers) Deposit(ctx context.Context, accountID uuid.UUID, amount domain.Money, description string) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	previous, next, err := t.accounts.Credit(ctx, accountID, amount)
	if err != nil {
		return nil, err
	}

	txn := domain.NewTransaction(accountID, domain.TypeDeposit, amount, previous, next, description)
	if err := t.ledger.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	slog.Info("Deposit completed", "transaction", txn.ID, "account", accountID, "amount", amount)
	return txn, nil
}

// Withdraw debits an account after verifying the transactional password.
// A failed withdrawal leaves the balance untouched and writes no COMPLETED
// entry.
func (t *Transfers) Withdraw(ctx context.Context, accountID uuid.UUID, amount domain.Money, secret, description string) (*domain.Transaction, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}
	if _, err := t.accounts.Account(ctx, accountID); err != nil {
		return nil, err
	}
	if err := t.guard.VerifyAccount(ctx, accountID, secret); err != nil {
		return nil, err
	}

	previous, next, err := t.accounts.Debit(ctx, accountID, amount)
	if err != nil {
		return nil, err
	}

	txn := domain.NewTransaction(accountID, domain.TypeWithdraw, amount, previous, next, description)
	if err := t.ledger.SaveTransaction(ctx, txn); err != nil {
		return nil, err
	}

	slog.Info("Withdrawal completed", "transaction", txn.ID, "account", accountID, "amount", amount)
	return txn, nil
}

// TransferPix moves money from the owner's active account to the account
// behind a pix key. The ledger entry is written in PROCESSING before the
// balances move, so a failed mutation still leaves an audit trail: the entry
// is finished as FAILED and the error is surfaced wrapped in a
// domain.TransferError.
func (t *Transfers) TransferPix(ctx context.Context, ownerID uuid.UUID, keyType domain.PixKeyType, keyValue string, amount domain.Money, secret, description string) (*TransferReceipt, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	if err := t.guard.Verify(ctx, ownerID, secret); err != nil {
		return nil, err
	}

	resolved, err := t.keys.Resolve(ctx, keyType, keyValue)
	if err != nil {
		return nil, err
	}

	from, err := t.accounts.ActiveAccountByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	to, err := t.accounts.Account(ctx, resolved.Key.AccountID)
	if err != nil {
		return nil, err
	}

	// Fail fast before any ledger write. The store re-checks under lock.
	if !from.HasSufficientBalance(amount) {
		return nil, domain.ErrInsufficientFunds
	}

	pix := domain.NewPixTransaction(from.ID, to.ID, amount, resolved.Key, description)
	if err := t.ledger.SavePixTransaction(ctx, pix); err != nil {
		return nil, err
	}

	if err := t.accounts.Transfer(ctx, from.ID, to.ID, amount); err != nil {
		if finishErr := t.ledger.FinishPixTransaction(ctx, pix.ID, domain.StatusFailed, t.now()); finishErr != nil {
			slog.Error("Failed to mark transfer entry FAILED", "transaction", pix.ID, "error", finishErr)
		}
		slog.Error("Pix transfer failed", "transaction", pix.ID, "error", err)
		return nil, &domain.TransferError{TransactionID: pix.ID, Err: err}
	}

	processedAt := t.now()
	if err := t.ledger.FinishPixTransaction(ctx, pix.ID, domain.StatusCompleted, processedAt); err != nil {
		// Balances already moved; the entry will show PROCESSING until
		// reconciliation. Loud, not fatal.
		slog.Error("Transfer committed but entry not finalized", "transaction", pix.ID, "error", err)
	}
	pix.Status = domain.StatusCompleted
	pix.ProcessedAt = &processedAt

	if t.events != nil {
		t.events.TransferCompleted(ctx, pix)
	}

	slog.Info("Pix transfer completed", "transaction", pix.ID, "amount", amount)

	return &TransferReceipt{
		TransactionID: pix.ID,
		Status:        pix.Status,
		Amount:        amount,
		Counterparty:  fmt.Sprintf("DE %s PARA %s", from.OwnerName, to.OwnerName),
		ProcessedAt:   processedAt,
	}, nil
}

// History lists an account's ledger entries, newest first.
type History struct {
	Transactions    []domain.Transaction    `json:"transactions"`
	PixTransactions []domain.PixTransaction `json:"pix_transactions"`
}

func (t *Transfers) History(ctx context.Context, accountID uuid.UUID, limit int) (*History, error) {
	if _, err := t.accounts.Account(ctx, accountID); err != nil {
		return nil, err
	}
	txns, err := t.ledger.AccountTransactions(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	pix, err := t.ledger.AccountPixTransactions(ctx, accountID, limit)
	if err != nil {
		return nil, err
	}
	return &History{Transactions: txns, PixTransactions: pix}, nil
}
