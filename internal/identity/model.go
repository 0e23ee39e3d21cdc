package identity

import "time"

// LoginType selects the column a login identifier is matched against.
type LoginType string

const (
	LoginByUsername LoginType = "username"
	LoginByEmail    LoginType = "email"
)

// Valid reports whether the login type is one of the supported values.
func (t LoginType) Valid() bool {
	return t == LoginByUsername || t == LoginByEmail
}

// User represents a registered account owner. PasswordHash is a bcrypt
// digest; the plaintext password is never stored.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// NewUser carries the fields required to insert a user row.
type NewUser struct {
	Username     string
	Email        string
	PasswordHash []byte
}
