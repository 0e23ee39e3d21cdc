package identity

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/walletd/walletd/internal/apperr"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = apperr.NotFound("user not found")

// ErrUserExists is returned when a username or email is already taken.
var ErrUserExists = apperr.InvalidArgument("username or email already taken")

// Repository persists users.
type Repository interface {
	Create(ctx context.Context, user NewUser) (User, error)
	FindByIdentifier(ctx context.Context, loginType LoginType, identifier string) (User, error)
}

// PostgresRepository implements Repository using PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a Postgres-backed identity repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a new user and returns the stored row.
func (r *PostgresRepository) Create(ctx context.Context, user NewUser) (User, error) {
	row := r.db.QueryRow(ctx, `INSERT INTO users (username, email, password_hash)
        VALUES ($1, $2, $3)
        RETURNING id, username, email, password_hash, created_at`,
		user.Username, user.Email, string(user.PasswordHash))

	saved, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return User{}, ErrUserExists
		}
		return User{}, apperr.Storage(err)
	}
	return saved, nil
}

// FindByIdentifier fetches a user by username or email depending on loginType.
func (r *PostgresRepository) FindByIdentifier(ctx context.Context, loginType LoginType, identifier string) (User, error) {
	column := "username"
	if loginType == LoginByEmail {
		column = "email"
	}
	row := r.db.QueryRow(ctx, `SELECT id, username, email, password_hash, created_at
        FROM users WHERE `+column+` = $1`, identifier)

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, ErrUserNotFound
		}
		return User{}, apperr.Storage(err)
	}
	return user, nil
}

func scanUser(row pgx.Row) (User, error) {
	var (
		user      User
		hash      string
		createdAt time.Time
	)
	if err := row.Scan(&user.ID, &user.Username, &user.Email, &hash, &createdAt); err != nil {
		return User{}, err
	}
	user.PasswordHash = []byte(hash)
	user.CreatedAt = createdAt.UTC()
	return user, nil
}
