package bank

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jairft/Bank-service/internal/adapter/storage"
	"github.com/jairft/Bank-service/internal/core/domain"
)

const testBankInfo = "711 - Bank Service"

func newTestDirectory(t *testing.T) (*KeyDirectory, *storage.MemoryStore) {
	t.Helper()
	st := storage.NewMemoryStore()
	return NewKeyDirectory(st, st, testBankInfo), st
}

func TestRegisterDerivesValueFromProfile(t *testing.T) {
	d, st := newTestDirectory(t)
	acc := seedAccount(t, st, "Ana Souza", "12345678901", "ana@example.com", "11987654321", 0)
	ctx := context.Background()

	cpfKey, err := d.Register(ctx, acc.ID, domain.KeyCPF)
	require.NoError(t, err)
	assert.Equal(t, acc.CPF, cpfKey.Value)
	assert.Equal(t, domain.KeyActive, cpfKey.Status)
	assert.Equal(t, acc.OwnerName, cpfKey.OwnerName)

	emailKey, err := d.Register(ctx, acc.ID, domain.KeyEmail)
	require.NoError(t, err)
	assert.Equal(t, acc.Email, emailKey.Value)

	randomKey, err := d.Register(ctx, acc.ID, domain.KeyRandom)
	require.NoError(t, err)
	assert.Len(t, randomKey.Value, domain.RandomKeyLength)
}

func TestRegisterRejectsInvalidProfileValue(t *testing.T) {
	d, st := newTestDirectory(t)
	acc := seedAccount(t, st, "Ana Souza", "12345678901", "ana@example.com", "", 0)

	_, err := d.Register(context.Background(), acc.ID, domain.KeyPhone)
	assert.ErrorIs(t, err, domain.ErrInvalidKeyValue)

	_, err = d.Register(context.Background(), acc.ID, domain.PixKeyType("CNPJ"))
	assert.ErrorIs(t, err, domain.ErrInvalidKeyValue)
}

func TestRegisterRejectsDuplicateValueAndType(t *testing.T) {
	d, st := newTestDirectory(t)
	first := seedAccount(t, st, "Ana Souza", "12345678901", "shared@example.com", "11987654321", 0)
	second := seedAccount(t, st, "Bia Lima", "10987654321", "shared@example.com", "11912345678", 0)
	ctx := context.Background()

	_, err := d.Register(ctx, first.ID, domain.KeyEmail)
	require.NoError(t, err)

	_, err = d.Register(ctx, second.ID, domain.KeyEmail)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)

	_, err = d.Register(ctx, first.ID, domain.KeyEmail)
	assert.ErrorIs(t, err, domain.ErrDuplicateKey)
}

func TestRegisterEnforcesActiveKeyLimit(t *testing.T) {
	d, st := newTestDirectory(t)
	acc := seedAccount(t, st, "Ana Souza", "12345678901", "ana@example.com", "11987654321", 0)
	ctx := context.Background()

	for _, keyType := range []domain.PixKeyType{domain.KeyCPF, domain.KeyEmail, domain.KeyPhone} {
		_, err := d.Register(ctx, acc.ID, keyType)
		require.NoError(t, err)
	}
	fourth, err := d.Register(ctx, acc.ID, domain.KeyRandom)
	require.NoError(t, err)
	_, err = d.Register(ctx, acc.ID, domain.KeyRandom)
	require.NoError(t, err)

	_, err = d.Register(ctx, acc.ID, domain.KeyRandom)
	assert.ErrorIs(t, err, domain.ErrKeyLimitExceeded)

	// Deactivating a key frees its slot.
	require.NoError(t, d.Deactivate(ctx, acc.ID, fourth.ID))
	_, err = d.Register(ctx, acc.ID, domain.KeyRandom)
	assert.NoError(t, err)
}

func TestResolve(t *testing.T) {
	d, st := newTestDirectory(t)
	acc := seedAccount(t, st, "Ana Souza", "12345678901", "ana@example.com", "11987654321", 0)
	ctx := context.Background()

	key, err := d.Register(ctx, acc.ID, domain.KeyEmail)
	require.NoError(t, err)

	resolved, err := d.Resolve(ctx, domain.KeyEmail, "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, resolved.Key.AccountID)
	assert.Equal(t, "Ana Souza", resolved.OwnerName)
	assert.Equal(t, testBankInfo, resolved.BankInfo)

	_, err = d.Resolve(ctx, domain.KeyEmail, "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	// Same value, different type: no match.
	_, err = d.Resolve(ctx, domain.KeyRandom, "ana@example.com")
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)

	require.NoError(t, d.Deactivate(ctx, acc.ID, key.ID))
	_, err = d.Resolve(ctx, domain.KeyEmail, "ana@example.com")
	assert.ErrorIs(t, err, domain.ErrKeyInactive)
}

func TestDeactivateAndDeleteRequireOwnership(t *testing.T) {
	d, st := newTestDirectory(t)
	owner := seedAccount(t, st, "Ana Souza", "12345678901", "ana@example.com", "11987654321", 0)
	other := seedAccount(t, st, "Bia Lima", "10987654321", "bia@example.com", "11912345678", 0)
	ctx := context.Background()

	key, err := d.Register(ctx, owner.ID, domain.KeyCPF)
	require.NoError(t, err)

	assert.ErrorIs(t, d.Deactivate(ctx, other.ID, key.ID), domain.ErrNotKeyOwner)
	assert.ErrorIs(t, d.Delete(ctx, other.ID, key.ID), domain.ErrNotKeyOwner)
	assert.ErrorIs(t, d.Delete(ctx, owner.ID, uuid.New()), domain.ErrKeyNotFound)

	require.NoError(t, d.Delete(ctx, owner.ID, key.ID))
	_, err = d.Resolve(ctx, domain.KeyCPF, owner.CPF)
	assert.ErrorIs(t, err, domain.ErrKeyNotFound)
}

func TestListReturnsAllKeys(t *testing.T) {
	d, st := newTestDirectory(t)
	acc := seedAccount(t, st, "Ana Souza", "12345678901", "ana@example.com", "11987654321", 0)
	ctx := context.Background()

	_, err := d.Register(ctx, acc.ID, domain.KeyCPF)
	require.NoError(t, err)
	inactive, err := d.Register(ctx, acc.ID, domain.KeyEmail)
	require.NoError(t, err)
	require.NoError(t, d.Deactivate(ctx, acc.ID, inactive.ID))

	keys, err := d.List(ctx, acc.ID)
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
