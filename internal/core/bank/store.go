// Package bank holds the core services: the transfer orchestrator, the
// transactional-password guard and the pix key directory. Persistence is
// reached only through the interfaces below; the postgres and in-memory
// implementations live under internal/adapter/storage.
package bank

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// AccountStore owns every mutation of an account row. Implementations
// serialize operations per account id; Transfer acquires both accounts in
// ascending-id order so opposing transfers cannot deadlock.
type AccountStore interface {
	CreateAccount(ctx context.Context, acc *domain.Account) error
	Account(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	// ActiveAccountByOwner returns the owner's ACTIVE account or
	// domain.ErrNoActiveAccount.
	ActiveAccountByOwner(ctx context.Context, ownerID uuid.UUID) (*domain.Account, error)

	// Credit and Debit return the balance before and after the mutation.
	Credit(ctx context.Context, id uuid.UUID, amount domain.Money) (previous, next domain.Money, err error)
	Debit(ctx context.Context, id uuid.UUID, amount domain.Money) (previous, next domain.Money, err error)

	// Transfer debits from and credits to as one all-or-nothing unit.
	Transfer(ctx context.Context, fromID, toID uuid.UUID, amount domain.Money) error

	// MutateAccount runs fn on the account under its exclusive section and
	// persists the transactional-password fields afterwards, even when fn
	// returns a domain error: a failed verification attempt must still be
	// counted.
	MutateAccount(ctx context.Context, id uuid.UUID, fn func(acc *domain.Account) error) error
}

// KeyStore persists pix keys. SaveKey surfaces domain.ErrDuplicateKey when
// the (value, type) pair is already registered.
type KeyStore interface {
	SaveKey(ctx context.Context, key *domain.PixKey) error
	KeyByID(ctx context.Context, id uuid.UUID) (*domain.PixKey, error)
	KeyByValue(ctx context.Context, keyType domain.PixKeyType, value string) (*domain.PixKey, error)
	KeysByAccount(ctx context.Context, accountID uuid.UUID) ([]domain.PixKey, error)
	CountActiveKeys(ctx context.Context, accountID uuid.UUID) (int, error)
	UpdateKeyStatus(ctx context.Context, id uuid.UUID, status domain.PixKeyStatus) error
	DeleteKey(ctx context.Context, id uuid.UUID) error
}

// LedgerStore is the append-only entry log. Finish transitions an entry out
// of PROCESSING exactly once; finalized entries refuse further updates with
// domain.ErrEntryFinalized.
type LedgerStore interface {
	SaveTransaction(ctx context.Context, txn *domain.Transaction) error
	SavePixTransaction(ctx context.Context, pix *domain.PixTransaction) error
	FinishPixTransaction(ctx context.Context, id string, status domain.TransactionStatus, processedAt time.Time) error
	AccountTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error)
	AccountPixTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.PixTransaction, error)
}

// EventSink receives completed transfers for out-of-band notification.
// Implementations must not fail the transfer path.
type EventSink interface {
	TransferCompleted(ctx context.Context, pix *domain.PixTransaction)
}
