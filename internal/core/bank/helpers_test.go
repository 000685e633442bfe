package bank

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/jairft/Bank-service/internal/adapter/storage"
	"github.com/jairft/Bank-service/internal/core/domain"
)

// fakeClock lets tests move time forward without sleeping.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func seedAccount(t *testing.T, st *storage.MemoryStore, name, cpf, email, phone string, balance domain.Money) *domain.Account {
	t.Helper()
	acc := domain.NewAccount(uuid.New(), name, cpf, email, phone)
	acc.Balance = balance
	require.NoError(t, st.CreateAccount(context.Background(), acc))
	return acc
}

func setSecret(t *testing.T, g *Guard, ownerID uuid.UUID, secret string) {
	t.Helper()
	require.NoError(t, g.SetSecret(context.Background(), ownerID, secret, secret))
}
