// Package token issues and verifies the signed bearer credentials that
// gate every protected request. Tokens are never persisted; logout is
// backed by a best-effort revocation set keyed by token ID.
package token

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/walletd/walletd/internal/apperr"
	"github.com/walletd/walletd/internal/identity"
)

var (
	// ErrTokenExpired is returned when the token is past its expiry.
	ErrTokenExpired = apperr.Unauthorized("token expired")
	// ErrInvalidToken covers every other verification failure. Signature
	// details are never exposed to callers.
	ErrInvalidToken = apperr.Unauthorized("invalid token")
)

// Claims are the assertions carried by an issued token.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Service signs, verifies and refreshes bearer tokens.
type Service struct {
	secret  []byte
	ttl     time.Duration
	revoked RevocationList
	logger  *slog.Logger
}

// NewService builds a token service. revoked may be nil, in which case
// logout has no server-side effect.
func NewService(secret []byte, ttl time.Duration, revoked RevocationList, logger *slog.Logger) *Service {
	return &Service{secret: secret, ttl: ttl, revoked: revoked, logger: logger}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl
}

// Issue mints a signed token for the user with a fresh expiry window.
func (s *Service) Issue(user identity.User) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: user.Username,
		Email:    user.Email,
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks signature, expiry and revocation, returning the claims on
// success. A revocation lookup failure degrades to accepting the token;
// logout is advisory and must not turn a cache outage into a login outage.
func (s *Service) Verify(ctx context.Context, tokenStr string) (Claims, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return Claims{}, err
	}

	if s.revoked != nil {
		revoked, err := s.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			s.logger.Warn("revocation lookup failed", "error", err)
		} else if revoked {
			return Claims{}, ErrInvalidToken
		}
	}

	return claims, nil
}

// Refresh verifies the old token and mints a new one carrying the same
// subject claims. Expired tokens cannot self-refresh.
func (s *Service) Refresh(ctx context.Context, oldToken string) (string, error) {
	claims, err := s.Verify(ctx, oldToken)
	if err != nil {
		return "", err
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		return "", ErrInvalidToken
	}

	return s.Issue(identity.User{ID: userID, Username: claims.Username, Email: claims.Email})
}

// Revoke records the token ID in the revocation set for the remainder of
// the token's lifetime. Unverifiable tokens are ignored; there is nothing
// to revoke.
func (s *Service) Revoke(ctx context.Context, tokenStr string) error {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil
	}
	if s.revoked == nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if remaining <= 0 {
		return nil
	}
	return s.revoked.Revoke(ctx, claims.ID, remaining)
}

func (s *Service) parse(tokenStr string) (Claims, error) {
	var claims Claims
	parsed, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !parsed.Valid {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// FromHeader extracts the bearer token from an Authorization header value.
func FromHeader(authz string) (string, bool) {
	if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
		return "", false
	}
	return strings.TrimSpace(authz[len("Bearer "):]), true
}
