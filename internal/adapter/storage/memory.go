package storage

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jairft/Bank-service/internal/core/domain"
)

// MemoryStore is the in-process implementation of the bank store
// interfaces, used by tests and when no DATABASE_URL is configured.
// Mutations on one account are serialized by a per-account mutex; transfers
// take both mutexes in ascending-id order, mirroring the row-lock order of
// the postgres store.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]*domain.Account
	locks    map[uuid.UUID]*sync.Mutex
	keys     map[uuid.UUID]*domain.PixKey
	txns     map[string]*domain.Transaction
	pix      map[string]*domain.PixTransaction
	txnOrder []string
	pixOrder []string
	apiKeys  map[string]uuid.UUID // key hash -> account id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[uuid.UUID]*domain.Account),
		locks:    make(map[uuid.UUID]*sync.Mutex),
		keys:     make(map[uuid.UUID]*domain.PixKey),
		txns:     make(map[string]*domain.Transaction),
		pix:      make(map[string]*domain.PixTransaction),
		apiKeys:  make(map[string]uuid.UUID),
	}
}

// lockFor returns the account's mutex, creating it on first use.
func (s *MemoryStore) lockFor(id uuid.UUID) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	return l
}

func (s *MemoryStore) get(id uuid.UUID) (*domain.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acc, ok := s.accounts[id]
	return acc, ok
}

func copyAccount(acc *domain.Account) *domain.Account {
	cp := *acc
	if acc.LockedUntil != nil {
		t := *acc.LockedUntil
		cp.LockedUntil = &t
	}
	return &cp
}

func (s *MemoryStore) CreateAccount(_ context.Context, acc *domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts[acc.ID] = copyAccount(acc)
	return nil
}

func (s *MemoryStore) Account(_ context.Context, id uuid.UUID) (*domain.Account, error) {
	acc, ok := s.get(id)
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return copyAccount(acc), nil
}

func (s *MemoryStore) ActiveAccountByOwner(_ context.Context, ownerID uuid.UUID) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, acc := range s.accounts {
		if acc.OwnerID == ownerID && acc.Status == domain.AccountActive {
			return copyAccount(acc), nil
		}
	}
	return nil, domain.ErrNoActiveAccount
}

func (s *MemoryStore) Credit(_ context.Context, id uuid.UUID, amount domain.Money) (domain.Money, domain.Money, error) {
	if !amount.IsPositive() {
		return 0, 0, domain.ErrInvalidAmount
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return 0, 0, domain.ErrAccountNotFound
	}
	previous := acc.Balance
	acc.Balance = acc.Balance.Add(amount)
	acc.UpdatedAt = time.Now().UTC()
	return previous, acc.Balance, nil
}

func (s *MemoryStore) Debit(_ context.Context, id uuid.UUID, amount domain.Money) (domain.Money, domain.Money, error) {
	if !amount.IsPositive() {
		return 0, 0, domain.ErrInvalidAmount
	}
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	acc, ok := s.accounts[id]
	if !ok {
		return 0, 0, domain.ErrAccountNotFound
	}
	if acc.Balance.LessThan(amount) {
		return 0, 0, domain.ErrInsufficientFunds
	}
	previous := acc.Balance
	acc.Balance = acc.Balance.Sub(amount)
	acc.UpdatedAt = time.Now().UTC()
	return previous, acc.Balance, nil
}

// Transfer debits from and credits to under both account locks, acquired in
// ascending-id order. Either both balances change or neither does.
func (s *MemoryStore) Transfer(_ context.Context, fromID, toID uuid.UUID, amount domain.Money) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidAmount
	}

	first, second := fromID, toID
	if bytes.Compare(second[:], first[:]) < 0 {
		first, second = second, first
	}
	firstLock, secondLock := s.lockFor(first), s.lockFor(second)
	firstLock.Lock()
	defer firstLock.Unlock()
	if second != first {
		secondLock.Lock()
		defer secondLock.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	from, ok := s.accounts[fromID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	to, ok := s.accounts[toID]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if from.Balance.LessThan(amount) {
		return domain.ErrInsufficientFunds
	}

	now := time.Now().UTC()
	from.Balance = from.Balance.Sub(amount)
	from.UpdatedAt = now
	to.Balance = to.Balance.Add(amount)
	to.UpdatedAt = now
	return nil
}

// MutateAccount runs fn under the account lock and keeps the
// transactional-password field changes even when fn returns a domain error.
func (s *MemoryStore) MutateAccount(_ context.Context, id uuid.UUID, fn func(acc *domain.Account) error) error {
	lock := s.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	acc, ok := s.get(id)
	if !ok {
		return domain.ErrAccountNotFound
	}

	// fn may hash passwords; run it on a copy outside the map lock. The
	// per-account mutex above prevents lost updates.
	cp := copyAccount(acc)
	fnErr := fn(cp)

	s.mu.Lock()
	defer s.mu.Unlock()
	acc.SecretHash = cp.SecretHash
	acc.SecretSet = cp.SecretSet
	acc.FailedAttempts = cp.FailedAttempts
	acc.LockedUntil = cp.LockedUntil
	acc.UpdatedAt = time.Now().UTC()
	return fnErr
}

// --- pix keys ---

func (s *MemoryStore) SaveKey(_ context.Context, key *domain.PixKey) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.keys {
		if existing.Type == key.Type && existing.Value == key.Value {
			return domain.ErrDuplicateKey
		}
	}
	cp := *key
	s.keys[key.ID] = &cp
	return nil
}

func (s *MemoryStore) KeyByID(_ context.Context, id uuid.UUID) (*domain.PixKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key, ok := s.keys[id]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	cp := *key
	return &cp, nil
}

func (s *MemoryStore) KeyByValue(_ context.Context, keyType domain.PixKeyType, value string) (*domain.PixKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, key := range s.keys {
		if key.Type == keyType && key.Value == value {
			cp := *key
			return &cp, nil
		}
	}
	return nil, domain.ErrKeyNotFound
}

func (s *MemoryStore) KeysByAccount(_ context.Context, accountID uuid.UUID) ([]domain.PixKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PixKey
	for _, key := range s.keys {
		if key.AccountID == accountID {
			out = append(out, *key)
		}
	}
	return out, nil
}

func (s *MemoryStore) CountActiveKeys(_ context.Context, accountID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, key := range s.keys {
		if key.AccountID == accountID && key.Status == domain.KeyActive {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) UpdateKeyStatus(_ context.Context, id uuid.UUID, status domain.PixKeyStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key, ok := s.keys[id]
	if !ok {
		return domain.ErrKeyNotFound
	}
	key.Status = status
	return nil
}

func (s *MemoryStore) DeleteKey(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.keys[id]; !ok {
		return domain.ErrKeyNotFound
	}
	delete(s.keys, id)
	return nil
}

// --- ledger entries ---

func (s *MemoryStore) SaveTransaction(_ context.Context, txn *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *txn
	s.txns[txn.ID] = &cp
	s.txnOrder = append(s.txnOrder, txn.ID)
	return nil
}

func (s *MemoryStore) SavePixTransaction(_ context.Context, pix *domain.PixTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *pix
	s.pix[pix.ID] = &cp
	s.pixOrder = append(s.pixOrder, pix.ID)
	return nil
}

func (s *MemoryStore) FinishPixTransaction(_ context.Context, id string, status domain.TransactionStatus, processedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pix, ok := s.pix[id]
	if !ok {
		return domain.ErrEntryNotFound
	}
	if pix.Status.Terminal() {
		return domain.ErrEntryFinalized
	}
	pix.Status = status
	pix.ProcessedAt = &processedAt
	return nil
}

// PixTransaction returns one transfer entry by id. Used by tests and the
// notification worker.
func (s *MemoryStore) PixTransaction(_ context.Context, id string) (*domain.PixTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pix, ok := s.pix[id]
	if !ok {
		return nil, domain.ErrEntryNotFound
	}
	cp := *pix
	return &cp, nil
}

func (s *MemoryStore) AccountTransactions(_ context.Context, accountID uuid.UUID, limit int) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Transaction
	for i := len(s.txnOrder) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		txn := s.txns[s.txnOrder[i]]
		if txn.AccountID == accountID {
			out = append(out, *txn)
		}
	}
	return out, nil
}

func (s *MemoryStore) AccountPixTransactions(_ context.Context, accountID uuid.UUID, limit int) ([]domain.PixTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PixTransaction
	for i := len(s.pixOrder) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		pix := s.pix[s.pixOrder[i]]
		if pix.FromAccountID == accountID || pix.ToAccountID == accountID {
			out = append(out, *pix)
		}
	}
	return out, nil
}

// --- api keys ---

func (s *MemoryStore) SaveAPIKey(_ context.Context, accountID uuid.UUID, keyHash, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apiKeys[keyHash] = accountID
	return nil
}

func (s *MemoryStore) AccountByAPIKey(ctx context.Context, keyHash string) (*domain.Account, error) {
	s.mu.RLock()
	accountID, ok := s.apiKeys[keyHash]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return s.Account(ctx, accountID)
}
