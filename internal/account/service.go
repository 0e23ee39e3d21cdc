package account

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/walletd/walletd/internal/apperr"
)

// Service orchestrates account operations against the durable store and
// the cache layer. Every write goes to the store first; the cache update
// is a best-effort follow-up, never part of the same atomic unit.
type Service struct {
	store  Store
	cache  *Cache
	logger *slog.Logger
}

// NewService builds an account service instance.
func NewService(store Store, cache *Cache, logger *slog.Logger) *Service {
	return &Service{store: store, cache: cache, logger: logger}
}

// CreateInput captures the data required to open an account.
type CreateInput struct {
	OwnerUserID    int64
	Currency       string
	InitialBalance decimal.Decimal
}

// Create opens an account with the given initial balance (zero by
// default). A cache write failure after the durable insert does not fail
// the operation; the store write is authoritative.
func (s *Service) Create(ctx context.Context, input CreateInput) (Account, error) {
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		return Account{}, apperr.InvalidArgument("currency is required")
	}
	if input.InitialBalance.IsNegative() {
		return Account{}, apperr.InvalidArgument("initial balance must not be negative")
	}

	acct, err := s.store.Insert(ctx, NewAccount{
		OwnerUserID: input.OwnerUserID,
		Currency:    currency,
		Balance:     input.InitialBalance,
	})
	if err != nil {
		return Account{}, err
	}

	s.writeCache(ctx, acct)
	return acct, nil
}

// Get returns the account, serving from cache when possible and
// repopulating the cache after a store read.
func (s *Service) Get(ctx context.Context, id int64) (Account, error) {
	if acct, ok := s.cache.Get(ctx, id); ok {
		return acct, nil
	}

	acct, err := s.store.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}

	s.writeCache(ctx, acct)
	return acct, nil
}

// Deposit credits the account by amount.
func (s *Service) Deposit(ctx context.Context, id int64, amount decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return Account{}, apperr.InvalidArgument("amount must be positive")
	}
	return s.applyDelta(ctx, id, amount)
}

// Withdraw debits the account by amount. The store-level guard rejects
// any withdrawal that would drive the balance negative.
func (s *Service) Withdraw(ctx context.Context, id int64, amount decimal.Decimal) (Account, error) {
	if !amount.IsPositive() {
		return Account{}, apperr.InvalidArgument("amount must be positive")
	}
	return s.applyDelta(ctx, id, amount.Neg())
}

func (s *Service) applyDelta(ctx context.Context, id int64, delta decimal.Decimal) (Account, error) {
	acct, err := s.store.ApplyDelta(ctx, id, delta)
	if err != nil {
		return Account{}, err
	}

	s.writeCache(ctx, acct)
	return acct, nil
}

func (s *Service) writeCache(ctx context.Context, acct Account) {
	if err := s.cache.Set(ctx, acct); err != nil {
		s.logger.Warn("account cache write failed", "account_id", acct.ID, "error", err)
	}
}
