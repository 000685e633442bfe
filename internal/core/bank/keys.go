package bank

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// KeyDirectory maps pix aliases to accounts. Key values are never
// user-supplied: CPF, EMAIL and PHONE come from the owner profile on the
// account, RANDOM is generated.
type KeyDirectory struct {
	accounts AccountStore
	keys     KeyStore
	bankInfo string
}

func NewKeyDirectory(accounts AccountStore, keys KeyStore, bankInfo string) *KeyDirectory {
	return &KeyDirectory{accounts: accounts, keys: keys, bankInfo: bankInfo}
}

// Register creates an ACTIVE key for the account. Fails with
// domain.ErrDuplicateKey when the (value, type) pair exists anywhere in the
// system, and with domain.ErrKeyLimitExceeded past 5 active keys.
func (d *KeyDirectory) Register(ctx context.Context, accountID uuid.UUID, keyType domain.PixKeyType) (*domain.PixKey, error) {
	acc, err := d.accounts.Account(ctx, accountID)
	if err != nil {
		return nil, err
	}

	var value string
	switch keyType {
	case domain.KeyCPF:
		value = acc.CPF
	case domain.KeyEmail:
		value = acc.Email
	case domain.KeyPhone:
		value = acc.Phone
	case domain.KeyRandom:
		value = domain.NewRandomKeyValue()
	default:
		return nil, domain.ValidateKeyValue(keyType, "")
	}

	if err := domain.ValidateKeyValue(keyType, value); err != nil {
		return nil, err
	}

	if existing, err := d.keys.KeyByValue(ctx, keyType, value); err == nil && existing != nil {
		return nil, domain.ErrDuplicateKey
	} else if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		return nil, err
	}

	active, err := d.keys.CountActiveKeys(ctx, accountID)
	if err != nil {
		return nil, err
	}
	if active >= domain.MaxActiveKeys {
		return nil, domain.ErrKeyLimitExceeded
	}

	key := domain.NewPixKey(accountID, keyType, value, acc.OwnerName)
	if err := d.keys.SaveKey(ctx, key); err != nil {
		return nil, err
	}

	slog.Info("Pix key registered", "account", acc.Number, "type", keyType)
	return key, nil
}

// ResolvedKey is what the sender sees before confirming a transfer.
type ResolvedKey struct {
	Key       *domain.PixKey `json:"key"`
	OwnerName string         `json:"owner_name"`
	BankInfo  string         `json:"bank_info"`
}

// Resolve finds the account behind an alias. Inactive keys do not resolve.
func (d *KeyDirectory) Resolve(ctx context.Context, keyType domain.PixKeyType, value string) (*ResolvedKey, error) {
	key, err := d.keys.KeyByValue(ctx, keyType, value)
	if err != nil {
		return nil, err
	}
	if key.Status != domain.KeyActive {
		return nil, domain.ErrKeyInactive
	}
	return &ResolvedKey{Key: key, OwnerName: key.OwnerName, BankInfo: d.bankInfo}, nil
}

// List returns all keys of an account, active or not.
func (d *KeyDirectory) List(ctx context.Context, accountID uuid.UUID) ([]domain.PixKey, error) {
	return d.keys.KeysByAccount(ctx, accountID)
}

// Deactivate turns a key INACTIVE without removing it.
func (d *KeyDirectory) Deactivate(ctx context.Context, accountID, keyID uuid.UUID) error {
	if err := d.ownedBy(ctx, accountID, keyID); err != nil {
		return err
	}
	return d.keys.UpdateKeyStatus(ctx, keyID, domain.KeyInactive)
}

// Delete removes a key permanently.
func (d *KeyDirectory) Delete(ctx context.Context, accountID, keyID uuid.UUID) error {
	if err := d.ownedBy(ctx, accountID, keyID); err != nil {
		return err
	}
	if err := d.keys.DeleteKey(ctx, keyID); err != nil {
		return err
	}
	slog.Info("Pix key deleted", "key", keyID)
	return nil
}

func (d *KeyDirectory) ownedBy(ctx context.Context, accountID, keyID uuid.UUID) error {
	key, err := d.keys.KeyByID(ctx, keyID)
	if err != nil {
		return err
	}
	if key.AccountID != accountID {
		return domain.ErrNotKeyOwner
	}
	return nil
}
