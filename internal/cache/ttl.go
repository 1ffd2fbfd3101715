// Package cache provides a small size- and time-bounded cache for ephemeral
// lookups. The clock is injected so expiry is testable without sleeps.
package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	storedAt time.Time
}

// TTL is a bounded cache. Entries expire after the configured TTL; when the
// cache is full, the oldest entry is evicted to make room. Safe for
// concurrent use.
type TTL[K comparable, V any] struct {
	mu         sync.Mutex
	entries    map[K]entry[V]
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a TTL cache. maxEntries must be positive. now may be nil, in
// which case time.Now is used.
func New[K comparable, V any](ttl time.Duration, maxEntries int, now func() time.Time) *TTL[K, V] {
	if now == nil {
		now = time.Now
	}
	return &TTL[K, V]{
		entries:    make(map[K]entry[V]),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        now,
	}
}

// Get returns the cached value for key, if present and unexpired.
func (c *TTL[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	if c.now().Sub(e.storedAt) > c.ttl {
		delete(c.entries, key)
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, evicting the oldest entry if at capacity.
func (c *TTL[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && len(c.entries) >= c.maxEntries {
		c.evictOldestLocked(now)
	}
	c.entries[key] = entry[V]{value: value, storedAt: now}
}

// Delete removes key from the cache.
func (c *TTL[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// Len returns the number of entries, including any not yet swept expired ones.
func (c *TTL[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *TTL[K, V]) evictOldestLocked(now time.Time) {
	// Expired entries go first; otherwise the oldest by insertion time.
	var oldestKey K
	var oldestAt time.Time
	found := false
	for k, e := range c.entries {
		if now.Sub(e.storedAt) > c.ttl {
			delete(c.entries, k)
			return
		}
		if !found || e.storedAt.Before(oldestAt) {
			oldestKey, oldestAt, found = k, e.storedAt, true
		}
	}
	if found {
		delete(c.entries, oldestKey)
	}
}
