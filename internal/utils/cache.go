package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BalanceCache is a read-through Redis cache for computed account balances.
// Every ledger write invalidates the owning account's entry. A nil
// *BalanceCache (or nil client) disables caching entirely, which keeps the
// ledger usable in tests and in deployments without Redis; cache failures
// are treated as misses, never surfaced.
type BalanceCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewBalanceCache creates a BalanceCache over the given client.
func NewBalanceCache(rdb *redis.Client, ttl time.Duration) *BalanceCache {
	return &BalanceCache{rdb: rdb, ttl: ttl}
}

func (c *BalanceCache) key(accountID int) string {
	return fmt.Sprintf("balance:%d", accountID)
}

func (c *BalanceCache) enabled() bool {
	return c != nil && c.rdb != nil
}

// Get loads a cached balance into dest, reporting whether it was present.
func (c *BalanceCache) Get(ctx context.Context, accountID int, dest any) bool {
	if !c.enabled() {
		return false
	}
	val, err := c.rdb.Get(ctx, c.key(accountID)).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores a computed balance with the cache TTL.
func (c *BalanceCache) Set(ctx context.Context, accountID int, value any) {
	if !c.enabled() {
		return
	}
	b, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, c.key(accountID), b, c.ttl)
}

// Invalidate drops the account's cached balance.
func (c *BalanceCache) Invalidate(ctx context.Context, accountID int) {
	if !c.enabled() {
		return
	}
	c.rdb.Del(ctx, c.key(accountID))
}
