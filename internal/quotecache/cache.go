// Package quotecache is a time-boxed key/value store for market data lookups.
package quotecache

import (
	"sync"
	"time"
)

// Key kinds used by the quote providers
const (
	KindQuote          = "quote"
	KindSearch         = "search"
	KindRegionalQuote  = "indian_quote"
	KindRegionalSearch = "indian_search"
)

// Default lifetimes of the global and regional caches
const (
	GlobalTTL   = 60 * time.Second
	RegionalTTL = 300 * time.Second
)

// Key builds a cache key from a kind and the raw caller argument.
// The argument is not normalised, so "aapl" and "AAPL" are different keys.
func Key(kind, arg string) string {
	return kind + "_" + arg
}

// Clock returns the current time
type Clock func() time.Time

type entry[V any] struct {
	value     V
	fetchedAt time.Time
}

// Cache stores values for a fixed TTL.
// Entries are never evicted, only overwritten or ignored once stale.
type Cache[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     Clock
	entries map[string]entry[V]
}

// New creates a cache with the given TTL. A nil clock uses time.Now.
func New[V any](ttl time.Duration, clock Clock) *Cache[V] {
	if clock == nil {
		clock = time.Now
	}
	return &Cache[V]{
		ttl:     ttl,
		now:     clock,
		entries: make(map[string]entry[V]),
	}
}

// Get returns the value stored under key if it is younger than the TTL
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok || c.now().Sub(e.fetchedAt) >= c.ttl {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Put stores value under key, stamped with the current clock time
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	c.entries[key] = entry[V]{value: value, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Len returns the number of stored entries, stale ones included
func (c *Cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// TTL returns the configured lifetime
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}
