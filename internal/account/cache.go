package account

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a best-effort read accelerator over the store, keyed by
// account identifier. Entries are derived data; on any conflict the
// store wins, and a stale or absent entry is repaired on the next read.
type Cache struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
	logger  *slog.Logger
}

// NewCache builds an account cache over the shared Redis client. Every
// round trip is bounded by timeout so a slow cache degrades to
// store-only reads instead of stalling requests.
func NewCache(rdb *redis.Client, ttl, timeout time.Duration, logger *slog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, timeout: timeout, logger: logger}
}

func cacheKey(id int64) string {
	return fmt.Sprintf("account:%d", id)
}

// Get returns the cached account if present. Lookup failures are logged
// and reported as misses.
func (c *Cache) Get(ctx context.Context, id int64) (Account, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := c.rdb.Get(ctx, cacheKey(id)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("account cache read failed", "account_id", id, "error", err)
		}
		return Account{}, false
	}

	var acct Account
	if err := json.Unmarshal(payload, &acct); err != nil {
		c.logger.Warn("account cache entry corrupt", "account_id", id, "error", err)
		if err := c.Invalidate(ctx, id); err != nil {
			c.logger.Warn("account cache invalidate failed", "account_id", id, "error", err)
		}
		return Account{}, false
	}
	return acct, true
}

// Set stores the account under its cache key.
func (c *Cache) Set(ctx context.Context, acct Account) error {
	payload, err := json.Marshal(acct)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.rdb.Set(ctx, cacheKey(acct.ID), payload, c.ttl).Err()
}

// Invalidate drops the cache entry for the account.
func (c *Cache) Invalidate(ctx context.Context, id int64) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.rdb.Del(ctx, cacheKey(id)).Err()
}
