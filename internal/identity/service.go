package identity

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/walletd/walletd/internal/apperr"
)

const minPasswordLength = 8

// ErrInvalidCredentials is the uniform authentication failure. Unknown
// identifier and wrong password are indistinguishable to the caller.
var ErrInvalidCredentials = apperr.Unauthorized("invalid credentials")

// Service manages the user credential lifecycle.
type Service struct {
	repo Repository
}

// NewService creates a new identity service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, input RegisterInput) (User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if username == "" {
		return User{}, apperr.InvalidArgument("username is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		return User{}, apperr.InvalidArgument("a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return User{}, apperr.InvalidArgument("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	return s.repo.Create(ctx, NewUser{Username: username, Email: email, PasswordHash: hash})
}

// Authenticate verifies a login identifier and password pair.
func (s *Service) Authenticate(ctx context.Context, loginType LoginType, identifier, password string) (User, error) {
	if !loginType.Valid() {
		return User{}, apperr.InvalidArgument("loginType must be \"username\" or \"email\"")
	}

	user, err := s.repo.FindByIdentifier(ctx, loginType, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return User{}, ErrInvalidCredentials
		}
		return User{}, err
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return User{}, ErrInvalidCredentials
	}

	return user, nil
}
