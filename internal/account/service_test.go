package account

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/walletd/walletd/internal/apperr"
	"github.com/walletd/walletd/internal/logging"
)

const ownerID = int64(1)

func newTestService(t *testing.T) (*Service, Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	store := NewMemoryStore()
	SeedOwner(store, ownerID)
	cache := NewCache(rdb, time.Minute, time.Second, logging.Discard())
	return NewService(store, cache, logging.Discard()), store, mr
}

func TestCreateAndGet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "usd"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !created.Balance.IsZero() {
		t.Fatalf("expected zero balance, got %s", created.Balance)
	}
	if created.Currency != "USD" {
		t.Fatalf("expected normalized currency USD, got %q", created.Currency)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fetched.ID != created.ID || !fetched.Balance.Equal(created.Balance) || fetched.Currency != created.Currency {
		t.Fatalf("get mismatch: created=%+v fetched=%+v", created, fetched)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "  "}); !errors.Is(err, apperr.InvalidArgument("")) {
		t.Fatalf("empty currency: expected invalid argument, got %v", err)
	}
	negative := CreateInput{OwnerUserID: ownerID, Currency: "USD", InitialBalance: decimal.NewFromInt(-5)}
	if _, err := svc.Create(ctx, negative); !errors.Is(err, apperr.InvalidArgument("")) {
		t.Fatalf("negative initial balance: expected invalid argument, got %v", err)
	}
	if _, err := svc.Create(ctx, CreateInput{OwnerUserID: 99, Currency: "USD"}); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("unknown owner: expected owner error, got %v", err)
	}
}

func TestGetServedFromCache(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "USD", InitialBalance: decimal.NewFromInt(25)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Mutate the store behind the cache's back: the cached entry must
	// still be served until it is invalidated or expires.
	if _, err := store.ApplyDelta(ctx, created.ID, decimal.NewFromInt(100)); err != nil {
		t.Fatalf("apply delta: %v", err)
	}

	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !fetched.Balance.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("expected cached balance 25, got %s", fetched.Balance)
	}
}

func TestGetRepairsCacheAfterMiss(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	mr.FlushAll()

	if _, err := svc.Get(ctx, created.ID); err != nil {
		t.Fatalf("get after flush: %v", err)
	}
	if !mr.Exists("account:1") {
		t.Fatalf("expected read to repopulate the cache")
	}
}

func TestCreateSurvivesCacheOutage(t *testing.T) {
	svc, _, mr := newTestService(t)
	ctx := context.Background()

	mr.Close()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("create must succeed despite cache outage: %v", err)
	}

	// Reads degrade to store-only while the cache is down.
	fetched, err := svc.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get during cache outage: %v", err)
	}
	if fetched.ID != created.ID {
		t.Fatalf("expected account %d, got %d", created.ID, fetched.ID)
	}
}

func TestDepositAndWithdraw(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	afterDeposit, err := svc.Deposit(ctx, created.ID, decimal.RequireFromString("100.50"))
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if !afterDeposit.Balance.Equal(decimal.RequireFromString("100.50")) {
		t.Fatalf("expected balance 100.50, got %s", afterDeposit.Balance)
	}

	afterWithdraw, err := svc.Withdraw(ctx, created.ID, decimal.RequireFromString("40.25"))
	if err != nil {
		t.Fatalf("withdraw: %v", err)
	}
	if !afterWithdraw.Balance.Equal(decimal.RequireFromString("60.25")) {
		t.Fatalf("expected balance 60.25, got %s", afterWithdraw.Balance)
	}
}

func TestWithdrawRejectsOverdraw(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Withdraw(ctx, created.ID, decimal.NewFromInt(100)); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds on zero balance, got %v", err)
	}
}

func TestMutationsRejectNonPositiveAmounts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{OwnerUserID: ownerID, Currency: "USD"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		if _, err := svc.Deposit(ctx, created.ID, amount); !errors.Is(err, apperr.InvalidArgument("")) {
			t.Fatalf("deposit %s: expected invalid argument, got %v", amount, err)
		}
		if _, err := svc.Withdraw(ctx, created.ID, amount); !errors.Is(err, apperr.InvalidArgument("")) {
			t.Fatalf("withdraw %s: expected invalid argument, got %v", amount, err)
		}
	}
}

func TestMutateUnknownAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	if _, err := svc.Deposit(context.Background(), 404, decimal.NewFromInt(10)); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

// Concurrent withdrawals on one account must never drive the balance
// negative, and the successful ones must account for every unit exactly.
func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateInput{
		OwnerUserID:    ownerID,
		Currency:       "USD",
		InitialBalance: decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	const (
		workers  = 10
		perDraw  = 30
		initial  = 100
		expected = initial / perDraw // only this many can succeed
	)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdraw(ctx, created.ID, decimal.NewFromInt(perDraw))
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, rejections int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrInsufficientFunds):
			rejections++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if successes != expected {
		t.Fatalf("expected exactly %d successful withdrawals, got %d", expected, successes)
	}
	if rejections != workers-expected {
		t.Fatalf("expected %d rejections, got %d", workers-expected, rejections)
	}

	// Read the store directly: concurrent cache refreshes may leave a
	// stale entry, and the store is the source of truth.
	final, err := store.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := decimal.NewFromInt(initial - int64(expected)*perDraw)
	if !final.Balance.Equal(want) {
		t.Fatalf("expected final balance %s, got %s", want, final.Balance)
	}
	if final.Balance.IsNegative() {
		t.Fatalf("balance went negative: %s", final.Balance)
	}
}
