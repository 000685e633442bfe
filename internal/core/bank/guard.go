package bank

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// Guard verifies the transactional password that authorizes every debit.
// Three consecutive failures lock the account for thirty minutes. The
// check-and-count sequence runs inside the account's exclusive section so
// concurrent attempts cannot under-count failures.
type Guard struct {
	accounts AccountStore
	now      func() time.Time
}

func NewGuard(accounts AccountStore) *Guard {
	return &Guard{accounts: accounts, now: time.Now}
}

// SetSecret configures the password for the owner's active account.
func (g *Guard) SetSecret(ctx context.Context, ownerID uuid.UUID, raw, confirm string) error {
	if raw != confirm {
		return domain.ErrSecretMismatch
	}
	if !domain.ValidSecretFormat(raw) {
		return domain.ErrInvalidSecretFormat
	}

	acc, err := g.accounts.ActiveAccountByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	return g.accounts.MutateAccount(ctx, acc.ID, func(a *domain.Account) error {
		if a.SecretSet {
			return domain.ErrSecretAlreadySet
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		a.SecretHash = string(hash)
		a.SecretSet = true
		a.FailedAttempts = 0
		a.LockedUntil = nil
		slog.Info("Transactional password configured", "account", a.Number)
		return nil
	})
}

// ChangeSecret replaces the password after verifying the current one. A
// wrong current password counts as a failed attempt like any other.
func (g *Guard) ChangeSecret(ctx context.Context, ownerID uuid.UUID, oldRaw, newRaw, confirm string) error {
	if newRaw != confirm {
		return domain.ErrSecretMismatch
	}
	if !domain.ValidSecretFormat(newRaw) {
		return domain.ErrInvalidSecretFormat
	}

	acc, err := g.accounts.ActiveAccountByOwner(ctx, ownerID)
	if err != nil {
		return err
	}

	return g.accounts.MutateAccount(ctx, acc.ID, func(a *domain.Account) error {
		if err := g.check(a, oldRaw); err != nil {
			return err
		}
		if bcrypt.CompareHashAndPassword([]byte(a.SecretHash), []byte(newRaw)) == nil {
			return domain.ErrSameSecret
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(newRaw), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		a.SecretHash = string(hash)
		a.FailedAttempts = 0
		a.LockedUntil = nil
		slog.Info("Transactional password changed", "account", a.Number)
		return nil
	})
}

// Verify authorizes a debit for the owner's active account.
func (g *Guard) Verify(ctx context.Context, ownerID uuid.UUID, raw string) error {
	acc, err := g.accounts.ActiveAccountByOwner(ctx, ownerID)
	if err != nil {
		return err
	}
	return g.VerifyAccount(ctx, acc.ID, raw)
}

// VerifyAccount authorizes a debit for a specific account id.
func (g *Guard) VerifyAccount(ctx context.Context, accountID uuid.UUID, raw string) error {
	return g.accounts.MutateAccount(ctx, accountID, func(a *domain.Account) error {
		return g.check(a, raw)
	})
}

// Status reports NOT_SET, BLOCKED or ACTIVE for the owner's active account.
func (g *Guard) Status(ctx context.Context, ownerID uuid.UUID) (string, error) {
	acc, err := g.accounts.ActiveAccountByOwner(ctx, ownerID)
	if err != nil {
		return "", err
	}
	if !acc.SecretSet {
		return "NOT_SET", nil
	}
	if locked, _ := acc.SecretLocked(g.now()); locked {
		return "BLOCKED", nil
	}
	return "ACTIVE", nil
}

// check runs the lockout state machine. Mutations to the attempt counter
// and lockout timestamp are persisted by MutateAccount regardless of the
// returned error.
func (g *Guard) check(a *domain.Account, raw string) error {
	now := g.now()

	if locked, remaining := a.SecretLocked(now); locked {
		return domain.SecretLockedError(remaining)
	}
	if !a.SecretSet || a.SecretHash == "" {
		return domain.ErrSecretNotSet
	}

	if bcrypt.CompareHashAndPassword([]byte(a.SecretHash), []byte(raw)) != nil {
		a.FailedAttempts++
		if a.FailedAttempts >= domain.MaxSecretAttempts {
			until := now.Add(domain.SecretLockDuration)
			a.LockedUntil = &until
			slog.Warn("Transactional password locked", "account", a.Number, "until", until)
			return domain.SecretLockedError(domain.SecretLockDuration)
		}
		return domain.InvalidSecretError(domain.MaxSecretAttempts - a.FailedAttempts)
	}

	a.FailedAttempts = 0
	a.LockedUntil = nil
	return nil
}
