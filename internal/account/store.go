package account

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/walletd/walletd/internal/apperr"
)

var (
	// ErrNotFound is returned when no account matches the identifier.
	ErrNotFound = apperr.NotFound("account not found")
	// ErrInsufficientFunds is returned when a delta would drive the
	// balance negative.
	ErrInsufficientFunds = apperr.InsufficientFunds("insufficient funds")
	// ErrOwnerNotFound is returned when the owning user does not exist.
	ErrOwnerNotFound = apperr.InvalidArgument("owner does not exist")
)

// Store is the durable account ledger, the sole source of truth for
// balances.
type Store interface {
	Insert(ctx context.Context, acct NewAccount) (Account, error)
	Get(ctx context.Context, id int64) (Account, error)
	// ApplyDelta adds delta (which may be negative) to the balance in a
	// single atomic statement that also enforces the no-negative guard.
	ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (Account, error)
}

// PostgresStore persists accounts in PostgreSQL.
type PostgresStore struct {
	db *pgxpool.Pool
}

// NewPostgresStore builds a Postgres-backed account store.
func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

// Insert creates an account row and returns the stored record.
func (s *PostgresStore) Insert(ctx context.Context, acct NewAccount) (Account, error) {
	row := s.db.QueryRow(ctx, `INSERT INTO accounts (user_id, currency, balance)
        VALUES ($1, $2, $3::numeric)
        RETURNING id, user_id, currency, balance::text, created_at`,
		acct.OwnerUserID, acct.Currency, acct.Balance.String())

	saved, err := scanAccount(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return Account{}, ErrOwnerNotFound
		}
		return Account{}, apperr.Storage(err)
	}
	return saved, nil
}

// Get fetches an account by identifier.
func (s *PostgresStore) Get(ctx context.Context, id int64) (Account, error) {
	row := s.db.QueryRow(ctx, `SELECT id, user_id, currency, balance::text, created_at
        FROM accounts WHERE id = $1`, id)

	acct, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrNotFound
		}
		return Account{}, apperr.Storage(err)
	}
	return acct, nil
}

// ApplyDelta increments the balance in one guarded statement. The set of
// rows matched by the WHERE clause is the synchronization point: a row is
// updated only if the resulting balance stays non-negative, so concurrent
// withdrawals on the same account cannot overdraw it.
func (s *PostgresStore) ApplyDelta(ctx context.Context, id int64, delta decimal.Decimal) (Account, error) {
	row := s.db.QueryRow(ctx, `UPDATE accounts
        SET balance = balance + $2::numeric
        WHERE id = $1 AND balance + $2::numeric >= 0
        RETURNING id, user_id, currency, balance::text, created_at`,
		id, delta.String())

	acct, err := scanAccount(row)
	if err == nil {
		return acct, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return Account{}, apperr.Storage(err)
	}

	// No row matched: distinguish a missing account from a rejected
	// overdraw. The invariant itself rests on the guard above, not on
	// this follow-up read.
	var exists bool
	if err := s.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE id = $1)`, id).Scan(&exists); err != nil {
		return Account{}, apperr.Storage(err)
	}
	if !exists {
		return Account{}, ErrNotFound
	}
	return Account{}, ErrInsufficientFunds
}

func scanAccount(row pgx.Row) (Account, error) {
	var (
		acct      Account
		balance   string
		createdAt time.Time
	)
	if err := row.Scan(&acct.ID, &acct.OwnerUserID, &acct.Currency, &balance, &createdAt); err != nil {
		return Account{}, err
	}
	dec, err := decimal.NewFromString(balance)
	if err != nil {
		return Account{}, err
	}
	acct.Balance = dec
	acct.CreatedAt = createdAt.UTC()
	return acct, nil
}
