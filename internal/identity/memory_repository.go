package identity

import (
	"context"
	"sync"
	"time"
)

type memoryRepository struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]User
}

// NewMemoryRepository builds an in-memory user store for testing.
func NewMemoryRepository() Repository {
	return &memoryRepository{users: make(map[int64]User)}
}

func (r *memoryRepository) Create(_ context.Context, user NewUser) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return User{}, ErrUserExists
		}
	}
	r.nextID++
	saved := User{
		ID:           r.nextID,
		Username:     user.Username,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		CreatedAt:    time.Now().UTC(),
	}
	r.users[saved.ID] = saved
	return saved, nil
}

func (r *memoryRepository) FindByIdentifier(_ context.Context, loginType LoginType, identifier string) (User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if (loginType == LoginByEmail && user.Email == identifier) ||
			(loginType == LoginByUsername && user.Username == identifier) {
			return user, nil
		}
	}
	return User{}, ErrUserNotFound
}
