package exchange

import (
	"context"
	"sync"
	"time"

	"custodia/internal/repositories/cache"

	"github.com/shopspring/decimal"
)

// RateEntry is a cached feed answer.
type RateEntry struct {
	Rate      decimal.Decimal `json:"rate"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// RateCache keeps feed answers for the stale window. Freshness against the
// short TTL is decided by the provider, so expired-but-stale entries must
// still be returned.
type RateCache interface {
	Get(ctx context.Context, symbol string) (RateEntry, bool, error)
	Set(ctx context.Context, symbol string, entry RateEntry) error
}

// MemoryRateCache is the process-wide cache used when redis is disabled.
type MemoryRateCache struct {
	mu       sync.Mutex
	entries  map[string]RateEntry
	staleTTL time.Duration
	now      func() time.Time
}

func NewMemoryRateCache(staleTTL time.Duration) *MemoryRateCache {
	return &MemoryRateCache{
		entries:  make(map[string]RateEntry),
		staleTTL: staleTTL,
		now:      time.Now,
	}
}

func (c *MemoryRateCache) Get(_ context.Context, symbol string) (RateEntry, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[symbol]
	if !ok {
		return RateEntry{}, false, nil
	}
	if c.staleTTL > 0 && c.now().Sub(entry.FetchedAt) > c.staleTTL {
		delete(c.entries, symbol)
		return RateEntry{}, false, nil
	}
	return entry, true, nil
}

func (c *MemoryRateCache) Set(_ context.Context, symbol string, entry RateEntry) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[symbol] = entry
	return nil
}

// RedisRateCache shares rates between server instances. Keys expire at the
// end of the stale window.
type RedisRateCache struct {
	cache    *cache.CacheService
	staleTTL time.Duration
}

func NewRedisRateCache(svc *cache.CacheService, staleTTL time.Duration) *RedisRateCache {
	if svc == nil {
		panic("cache service is required")
	}
	return &RedisRateCache{cache: svc, staleTTL: staleTTL}
}

func (c *RedisRateCache) Get(ctx context.Context, symbol string) (RateEntry, bool, error) {
	var entry RateEntry
	found, err := c.cache.Get(ctx, c.key(symbol), &entry)
	if err != nil || !found {
		return RateEntry{}, false, err
	}
	return entry, true, nil
}

func (c *RedisRateCache) Set(ctx context.Context, symbol string, entry RateEntry) error {
	return c.cache.SetWithTTL(ctx, c.key(symbol), entry, c.staleTTL)
}

func (c *RedisRateCache) key(symbol string) string {
	return c.cache.GenerateKey("rate", "usd", symbol)
}
