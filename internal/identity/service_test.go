package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/walletd/walletd/internal/apperr"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, RegisterInput{Username: "testuser", Email: "test@example.com", Password: "password123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == 0 {
		t.Fatalf("expected assigned user ID")
	}
	if string(user.PasswordHash) == "password123" {
		t.Fatalf("password stored in plaintext")
	}

	byName, err := svc.Authenticate(ctx, LoginByUsername, "testuser", "password123")
	if err != nil {
		t.Fatalf("authenticate by username: %v", err)
	}
	if byName.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, byName.ID)
	}

	byEmail, err := svc.Authenticate(ctx, LoginByEmail, "test@example.com", "password123")
	if err != nil {
		t.Fatalf("authenticate by email: %v", err)
	}
	if byEmail.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, byEmail.ID)
	}
}

func TestAuthenticateUniformFailure(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "testuser", Email: "test@example.com", Password: "password123"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Authenticate(ctx, LoginByUsername, "testuser", "nope-nope")
	_, unknownUser := svc.Authenticate(ctx, LoginByUsername, "ghost", "password123")

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", wrongPass)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Fatalf("unknown user: got %v", unknownUser)
	}
	if wrongPass.Error() != unknownUser.Error() {
		t.Fatalf("failures must be indistinguishable: %q vs %q", wrongPass, unknownUser)
	}
}

func TestAuthenticateRejectsUnknownLoginType(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	_, err := svc.Authenticate(context.Background(), LoginType("phone"), "x", "y")
	if !errors.Is(err, apperr.InvalidArgument("")) {
		t.Fatalf("expected invalid argument, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	cases := []RegisterInput{
		{Username: "", Email: "a@b.c", Password: "password123"},
		{Username: "u", Email: "not-an-email", Password: "password123"},
		{Username: "u", Email: "a@b.c", Password: "short"},
	}
	for i, input := range cases {
		if _, err := svc.Register(ctx, input); !errors.Is(err, apperr.InvalidArgument("")) {
			t.Fatalf("case %d: expected invalid argument, got %v", i, err)
		}
	}
}

func TestRegisterDuplicate(t *testing.T) {
	svc := NewService(NewMemoryRepository())
	ctx := context.Background()

	input := RegisterInput{Username: "testuser", Email: "test@example.com", Password: "password123"}
	if _, err := svc.Register(ctx, input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, input); !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected duplicate rejection, got %v", err)
	}
}
