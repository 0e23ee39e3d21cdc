package account

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

type memoryStore struct {
	mu       sync.Mutex
	nextID   int64
	owners   map[int64]struct{}
	accounts map[int64]Account
}

// NewMemoryStore constructs an in-memory store for tests. It applies the
// same no-negative guard as the Postgres implementation, under a mutex.
func NewMemoryStore() Store {
	return &memoryStore{
		owners:   make(map[int64]struct{}),
		accounts: make(map[int64]Account),
	}
}

func (s *memoryStore) Insert(_ context.Context, acct NewAccount) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owners[acct.OwnerUserID]; !ok {
		return Account{}, ErrOwnerNotFound
	}
	s.nextID++
	saved := Account{
		ID:          s.nextID,
		OwnerUserID: acct.OwnerUserID,
		Currency:    acct.Currency,
		Balance:     acct.Balance,
		CreatedAt:   time.Now().UTC(),
	}
	s.accounts[saved.ID] = saved
	return saved, nil
}

func (s *memoryStore) Get(_ context.Context, id int64) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return acct, nil
}

func (s *memoryStore) ApplyDelta(_ context.Context, id int64, delta decimal.Decimal) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	next := acct.Balance.Add(delta)
	if next.IsNegative() {
		return Account{}, ErrInsufficientFunds
	}
	acct.Balance = next
	s.accounts[id] = acct
	return acct, nil
}
