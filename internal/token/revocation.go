package token

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

// RevocationList tracks token IDs invalidated before their natural expiry.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisRevocationList stores revoked token IDs in Redis. Entries expire
// alongside the tokens they shadow, so the set never grows unbounded.
type RedisRevocationList struct {
	rdb     *redis.Client
	timeout time.Duration
}

// NewRedisRevocationList builds a Redis-backed revocation list.
func NewRedisRevocationList(rdb *redis.Client, timeout time.Duration) *RedisRevocationList {
	return &RedisRevocationList{rdb: rdb, timeout: timeout}
}

// Revoke marks the token ID as invalid for ttl.
func (l *RedisRevocationList) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.rdb.Set(ctx, revokedKeyPrefix+jti, "1", ttl).Err()
}

// IsRevoked reports whether the token ID is in the revocation set.
func (l *RedisRevocationList) IsRevoked(ctx context.Context, jti string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	n, err := l.rdb.Exists(ctx, revokedKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
