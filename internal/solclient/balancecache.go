package solclient

import (
	"fmt"
	"sync"
	"time"
)

// BalanceCache memoizes token balance lookups. It is a latency optimization
// only: correctness-sensitive paths (eligibility quest checks) bypass it, so
// any implementation, including the disabled one, is safe.
type BalanceCache interface {
	Get(key string) (float64, bool)
	Put(key string, balance float64)
}

func BalanceCacheKey(address, mint, cluster string) string {
	return fmt.Sprintf("%s-%s-%s", address, mint, cluster)
}

type memoryBalanceCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]balanceEntry
}

type balanceEntry struct {
	balance  float64
	cachedAt time.Time
}

// NewMemoryBalanceCache returns an in-process cache with the given TTL.
// Expired entries are dropped lazily on read.
func NewMemoryBalanceCache(ttl time.Duration) BalanceCache {
	return &memoryBalanceCache{
		ttl:     ttl,
		entries: make(map[string]balanceEntry),
	}
}

func (c *memoryBalanceCache) Get(key string) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	if time.Since(entry.cachedAt) > c.ttl {
		delete(c.entries, key)
		return 0, false
	}
	return entry.balance, true
}

func (c *memoryBalanceCache) Put(key string, balance float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = balanceEntry{balance: balance, cachedAt: time.Now()}
}

type nopBalanceCache struct{}

// NewNopBalanceCache disables memoization entirely.
func NewNopBalanceCache() BalanceCache {
	return nopBalanceCache{}
}

func (nopBalanceCache) Get(string) (float64, bool) { return 0, false }
func (nopBalanceCache) Put(string, float64)        {}
