package domain

import (
	"errors"
	"fmt"
	"time"
)

// Error kinds surfaced by the core. Handlers map these to HTTP statuses;
// everything else is treated as an internal fault.
var (
	ErrAccountNotFound   = errors.New("account not found")
	ErrNoActiveAccount   = errors.New("no active account for this user")
	ErrInvalidAmount     = errors.New("amount must be a positive value")
	ErrInsufficientFunds = errors.New("insufficient funds")

	ErrSecretNotSet        = errors.New("transactional password not configured")
	ErrSecretAlreadySet    = errors.New("transactional password already configured")
	ErrSecretMismatch      = errors.New("password and confirmation do not match")
	ErrSameSecret          = errors.New("new password must differ from the current one")
	ErrInvalidSecretFormat = errors.New("transactional password must be 4 to 6 digits")
	ErrInvalidSecret       = errors.New("invalid transactional password")
	ErrSecretLocked        = errors.New("transactional password locked")

	ErrKeyNotFound      = errors.New("pix key not found")
	ErrKeyInactive      = errors.New("pix key is inactive")
	ErrDuplicateKey     = errors.New("pix key already registered")
	ErrKeyLimitExceeded = errors.New("pix key limit of 5 active keys reached")
	ErrNotKeyOwner      = errors.New("pix key does not belong to this account")
	ErrInvalidKeyValue  = errors.New("invalid pix key value")

	ErrEntryNotFound  = errors.New("ledger entry not found")
	ErrEntryFinalized = errors.New("ledger entry already finalized")

	ErrTransferFailed = errors.New("transfer failed")
)

// InvalidSecretError reports how many attempts remain before lockout.
func InvalidSecretError(attemptsLeft int) error {
	return fmt.Errorf("%w: %d attempts remaining", ErrInvalidSecret, attemptsLeft)
}

// SecretLockedError reports how long the caller must wait, rounded up to
// whole minutes so the message never says "0 minutes" while still locked.
func SecretLockedError(retryIn time.Duration) error {
	mins := int(retryIn / time.Minute)
	if retryIn%time.Minute != 0 {
		mins++
	}
	return fmt.Errorf("%w: try again in %d minutes", ErrSecretLocked, mins)
}

// TransferError wraps the fault that aborted a transfer after its ledger
// entry was already written. errors.Is sees both ErrTransferFailed and the
// underlying cause.
type TransferError struct {
	TransactionID string
	Err           error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s failed: %v", e.TransactionID, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }

func (e *TransferError) Is(target error) bool { return target == ErrTransferFailed }
