// Package cache provides the TTL-bounded, size-bounded response cache
// shared by every capability resolver in a process.
//
// The cache is purely an optimization layer: a miss never changes the
// correctness of a resolution, only its latency and provider cost.
package cache

import (
	"sync"
	"time"
)

// DefaultCapacity is the soft size cap when none is configured.
const DefaultCapacity = 100

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a concurrency-safe key/value store with lazy TTL expiry and a
// soft capacity bound. The zero value is not usable; construct with New.
type Cache[V any] struct {
	mu       sync.Mutex
	entries  map[string]entry[V]
	capacity int
	now      func() time.Time
}

// New creates a cache with the given soft capacity bound. A capacity of
// zero or less falls back to DefaultCapacity.
func New[V any](capacity int) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[V]{
		entries:  make(map[string]entry[V]),
		capacity: capacity,
		now:      time.Now,
	}
}

// Get returns the cached value for key, or false if the key is missing or
// expired. Expired entries are evicted on read.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Put stores value under key for the given TTL. A non-positive TTL stores
// nothing. If the cache exceeds its capacity after the insert, all expired
// entries are swept; if still over, entries closest to expiry are evicted.
// The entry inserted by this call is never evicted by its own Put.
func (c *Cache[V]) Put(key string, value V, ttl time.Duration) {
	if ttl <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.entries[key] = entry[V]{value: value, expiresAt: now.Add(ttl)}

	if len(c.entries) <= c.capacity {
		return
	}

	// Expired entries go first.
	for k, e := range c.entries {
		if k != key && !now.Before(e.expiresAt) {
			delete(c.entries, k)
		}
	}

	// Still over the soft cap: drop whatever expires soonest.
	for len(c.entries) > c.capacity {
		victim := ""
		var victimExpiry time.Time
		for k, e := range c.entries {
			if k == key {
				continue
			}
			if victim == "" || e.expiresAt.Before(victimExpiry) {
				victim = k
				victimExpiry = e.expiresAt
			}
		}
		if victim == "" {
			return
		}
		delete(c.entries, victim)
	}
}

// Len returns the number of entries currently stored, including entries
// that have expired but not yet been swept.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// SetClock overrides the cache's time source. Tests only.
func (c *Cache[V]) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}
