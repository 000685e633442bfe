package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionIDFormat(t *testing.T) {
	id := NewTransactionID()
	assert.True(t, strings.HasPrefix(id, "TXN"), id)
	assert.Len(t, id, 3+13+6, id)

	pixID := NewPixTransactionID()
	assert.True(t, strings.HasPrefix(pixID, "PIX"), pixID)
	assert.Len(t, pixID, 3+13+8, pixID)
}

func TestTransactionIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTransactionID()
		require.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusPending.Terminal())
	assert.False(t, StatusProcessing.Terminal())
}

func TestNewTransactionRecordsBalances(t *testing.T) {
	accID := uuid.New()
	txn := NewTransaction(accID, TypeDeposit, 2500, 0, 2500, "first deposit")

	assert.Equal(t, accID, txn.AccountID)
	assert.Equal(t, StatusCompleted, txn.Status)
	assert.Equal(t, txn.PreviousBalance.Add(txn.Amount), txn.NewBalance)
	require.NotNil(t, txn.ProcessedAt)
}

func TestNewPixTransactionStartsProcessing(t *testing.T) {
	key := NewPixKey(uuid.New(), KeyEmail, "ana@example.com", "Ana")
	pix := NewPixTransaction(uuid.New(), key.AccountID, 1000, key, "rent")

	assert.Equal(t, StatusProcessing, pix.Status)
	assert.Equal(t, KeyEmail, pix.KeyType)
	assert.Equal(t, "ana@example.com", pix.KeyValue)
	assert.Nil(t, pix.ProcessedAt)
}

func TestValidateKeyValue(t *testing.T) {
	assert.NoError(t, ValidateKeyValue(KeyCPF, "12345678901"))
	assert.ErrorIs(t, ValidateKeyValue(KeyCPF, "123"), ErrInvalidKeyValue)
	assert.NoError(t, ValidateKeyValue(KeyPhone, "11987654321"))
	assert.NoError(t, ValidateKeyValue(KeyPhone, "1187654321"))
	assert.ErrorIs(t, ValidateKeyValue(KeyPhone, "119876543210"), ErrInvalidKeyValue)
	assert.NoError(t, ValidateKeyValue(KeyEmail, "ana@example.com"))
	assert.ErrorIs(t, ValidateKeyValue(KeyEmail, "not-an-email"), ErrInvalidKeyValue)
	assert.NoError(t, ValidateKeyValue(KeyRandom, NewRandomKeyValue()))
	assert.ErrorIs(t, ValidateKeyValue(KeyRandom, "short"), ErrInvalidKeyValue)
	assert.ErrorIs(t, ValidateKeyValue(PixKeyType("CNPJ"), "x"), ErrInvalidKeyValue)
}

func TestValidSecretFormat(t *testing.T) {
	assert.True(t, ValidSecretFormat("1234"))
	assert.True(t, ValidSecretFormat("123456"))
	assert.False(t, ValidSecretFormat("123"))
	assert.False(t, ValidSecretFormat("1234567"))
	assert.False(t, ValidSecretFormat("12a4"))
}
