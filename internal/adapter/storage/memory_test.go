package storage

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jairft/Bank-service/internal/core/domain"
)

func seedAccount(t *testing.T, st *MemoryStore, balance domain.Money) *domain.Account {
	t.Helper()
	acc := domain.NewAccount(uuid.New(), "Ana Souza", "12345678901", "ana@example.com", "11987654321")
	acc.Balance = balance
	require.NoError(t, st.CreateAccount(context.Background(), acc))
	return acc
}

func TestCreditAndDebit(t *testing.T) {
	st := NewMemoryStore()
	acc := seedAccount(t, st, 1000)
	ctx := context.Background()

	previous, next, err := st.Credit(ctx, acc.ID, 500)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1000), previous)
	assert.Equal(t, domain.Money(1500), next)

	previous, next, err = st.Debit(ctx, acc.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1500), previous)
	assert.Equal(t, domain.Money(1200), next)

	got, err := st.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(1200), got.Balance)
}

func TestCreditAndDebitValidation(t *testing.T) {
	st := NewMemoryStore()
	acc := seedAccount(t, st, 100)
	ctx := context.Background()

	_, _, err := st.Credit(ctx, acc.ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, _, err = st.Debit(ctx, acc.ID, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	_, _, err = st.Credit(ctx, uuid.New(), 100)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	_, _, err = st.Debit(ctx, acc.ID, 101)
	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	got, err := st.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(100), got.Balance)
}

func TestTransferMovesBothBalancesOrNeither(t *testing.T) {
	st := NewMemoryStore()
	from := seedAccount(t, st, 1000)
	to := seedAccount(t, st, 0)
	ctx := context.Background()

	require.NoError(t, st.Transfer(ctx, from.ID, to.ID, 400))

	fromAcc, _ := st.Account(ctx, from.ID)
	toAcc, _ := st.Account(ctx, to.ID)
	assert.Equal(t, domain.Money(600), fromAcc.Balance)
	assert.Equal(t, domain.Money(400), toAcc.Balance)

	assert.ErrorIs(t, st.Transfer(ctx, from.ID, to.ID, 601), domain.ErrInsufficientFunds)
	assert.ErrorIs(t, st.Transfer(ctx, from.ID, uuid.New(), 100), domain.ErrAccountNotFound)

	fromAcc, _ = st.Account(ctx, from.ID)
	toAcc, _ = st.Account(ctx, to.ID)
	assert.Equal(t, domain.Money(600), fromAcc.Balance)
	assert.Equal(t, domain.Money(400), toAcc.Balance)
}

func TestOpposingTransfersConserveTotal(t *testing.T) {
	st := NewMemoryStore()
	a := seedAccount(t, st, 10000)
	b := seedAccount(t, st, 10000)
	ctx := context.Background()

	const rounds = 200
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			st.Transfer(ctx, a.ID, b.ID, 1)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < rounds; i++ {
			st.Transfer(ctx, b.ID, a.ID, 1)
		}
	}()
	wg.Wait()

	accA, _ := st.Account(ctx, a.ID)
	accB, _ := st.Account(ctx, b.ID)
	assert.Equal(t, domain.Money(20000), accA.Balance.Add(accB.Balance))
	assert.False(t, accA.Balance.LessThan(0))
	assert.False(t, accB.Balance.LessThan(0))
}

func TestConcurrentDebitsNeverOverdraw(t *testing.T) {
	st := NewMemoryStore()
	acc := seedAccount(t, st, 100)
	ctx := context.Background()

	const workers = 50
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
	)
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if _, _, err := st.Debit(ctx, acc.ID, 3); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	got, err := st.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.Money(100-3*succeeded), got.Balance)
	assert.False(t, got.Balance.LessThan(0))
	assert.LessOrEqual(t, succeeded, 33)
}

func TestMutateAccountPersistsEvenOnError(t *testing.T) {
	st := NewMemoryStore()
	acc := seedAccount(t, st, 0)
	ctx := context.Background()

	err := st.MutateAccount(ctx, acc.ID, func(a *domain.Account) error {
		a.FailedAttempts = 2
		until := time.Now().Add(time.Hour)
		a.LockedUntil = &until
		return domain.ErrInvalidSecret
	})
	assert.ErrorIs(t, err, domain.ErrInvalidSecret)

	got, err := st.Account(ctx, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.FailedAttempts)
	require.NotNil(t, got.LockedUntil)

	assert.ErrorIs(t, st.MutateAccount(ctx, uuid.New(), func(*domain.Account) error { return nil }), domain.ErrAccountNotFound)
}

func TestFinishPixTransactionIsOneShot(t *testing.T) {
	st := NewMemoryStore()
	from := seedAccount(t, st, 1000)
	to := seedAccount(t, st, 0)
	ctx := context.Background()

	key := domain.NewPixKey(to.ID, domain.KeyEmail, "ana@example.com", "Ana Souza")
	pix := domain.NewPixTransaction(from.ID, to.ID, 100, key, "")
	require.NoError(t, st.SavePixTransaction(ctx, pix))

	now := time.Now().UTC()
	require.NoError(t, st.FinishPixTransaction(ctx, pix.ID, domain.StatusCompleted, now))

	got, err := st.PixTransaction(ctx, pix.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	require.NotNil(t, got.ProcessedAt)

	assert.ErrorIs(t, st.FinishPixTransaction(ctx, pix.ID, domain.StatusFailed, now), domain.ErrEntryFinalized)
	assert.ErrorIs(t, st.FinishPixTransaction(ctx, "PIX0NOPE", domain.StatusFailed, now), domain.ErrEntryNotFound)

	got, err = st.PixTransaction(ctx, pix.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestAccountTransactionsNewestFirstWithLimit(t *testing.T) {
	st := NewMemoryStore()
	acc := seedAccount(t, st, 0)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		txn := domain.NewTransaction(acc.ID, domain.TypeDeposit, 100, domain.Money(100*i), domain.Money(100*(i+1)), "")
		require.NoError(t, st.SaveTransaction(ctx, txn))
		ids = append(ids, txn.ID)
	}

	out, err := st.AccountTransactions(ctx, acc.ID, 2)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, ids[2], out[0].ID)
	assert.Equal(t, ids[1], out[1].ID)

	all, err := st.AccountTransactions(ctx, acc.ID, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestAPIKeyLookup(t *testing.T) {
	st := NewMemoryStore()
	acc := seedAccount(t, st, 0)
	ctx := context.Background()

	require.NoError(t, st.SaveAPIKey(ctx, acc.ID, "hash-one", "bk_live_ab"))

	got, err := st.AccountByAPIKey(ctx, "hash-one")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)

	_, err = st.AccountByAPIKey(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}
