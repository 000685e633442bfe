package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type TransactionType string

const (
	TypeDeposit  TransactionType = "DEPOSIT"
	TypeWithdraw TransactionType = "WITHDRAW"
)

type TransactionStatus string

const (
	StatusPending    TransactionStatus = "PENDING"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusCompleted  TransactionStatus = "COMPLETED"
	StatusFailed     TransactionStatus = "FAILED"
	StatusCancelled  TransactionStatus = "CANCELLED"
)

// Terminal reports whether a status allows no further transition.
func (s TransactionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusCancelled
}

// Transaction is the ledger entry for a single-account operation (deposit
// or withdraw). Immutable once written.
type Transaction struct {
	ID              string            `json:"transaction_id"`
	AccountID       uuid.UUID         `json:"account_id"`
	Type            TransactionType   `json:"type"`
	Amount          Money             `json:"amount"`
	PreviousBalance Money             `json:"previous_balance"`
	NewBalance      Money             `json:"new_balance"`
	Description     string            `json:"description"`
	Status          TransactionStatus `json:"status"`
	CreatedAt       time.Time         `json:"created_at"`
	ProcessedAt     *time.Time        `json:"processed_at,omitempty"`
}

// NewTransaction builds a COMPLETED single-account entry. Deposits and
// withdrawals record the entry after the balance mutation committed.
func NewTransaction(accountID uuid.UUID, txType TransactionType, amount, previous, next Money, description string) *Transaction {
	now := time.Now().UTC()
	return &Transaction{
		ID:              NewTransactionID(),
		AccountID:       accountID,
		Type:            txType,
		Amount:          amount,
		PreviousBalance: previous,
		NewBalance:      next,
		Description:     description,
		Status:          StatusCompleted,
		CreatedAt:       now,
		ProcessedAt:     &now,
	}
}

// PixTransaction is the ledger entry for one transfer: both account ids plus
// the destination key metadata. Created in PROCESSING before the balance
// mutation is attempted, finished as COMPLETED or FAILED.
type PixTransaction struct {
	ID            string            `json:"transaction_id"`
	FromAccountID uuid.UUID         `json:"from_account_id"`
	ToAccountID   uuid.UUID         `json:"to_account_id"`
	Amount        Money             `json:"amount"`
	Description   string            `json:"description"`
	KeyType       PixKeyType        `json:"key_type"`
	KeyValue      string            `json:"key_value"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	ProcessedAt   *time.Time        `json:"processed_at,omitempty"`
}

// NewPixTransaction builds a PROCESSING transfer entry.
func NewPixTransaction(fromID, toID uuid.UUID, amount Money, key *PixKey, description string) *PixTransaction {
	return &PixTransaction{
		ID:            NewPixTransactionID(),
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Description:   description,
		KeyType:       key.Type,
		KeyValue:      key.Value,
		Status:        StatusProcessing,
		CreatedAt:     time.Now().UTC(),
	}
}

// NewTransactionID generates an id like TXN1714501123456A1B2C3: type prefix,
// unix milliseconds, random suffix. Sortable by creation time, the suffix
// absorbs same-millisecond collisions.
func NewTransactionID() string {
	return entryID("TXN", 6)
}

// NewPixTransactionID generates an id like PIX1714501123456A1B2C3D4.
func NewPixTransactionID() string {
	return entryID("PIX", 8)
}

func entryID(prefix string, suffixLen int) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:suffixLen]
	return fmt.Sprintf("%s%d%s", prefix, time.Now().UnixMilli(), suffix)
}
