// FILE: livery/cache.go
package livery

import (
	"sync"
	"time"
)

// EntryState describes where a cache entry is in its lifecycle.
type EntryState int

const (
	// StateFresh means now - fetchedAt <= ttl; the value is served directly.
	StateFresh EntryState = iota
	// StateStale means the ttl has elapsed and no refresh is running.
	StateStale
	// StateRevalidating means the ttl has elapsed and a background refresh
	// for the key is in flight.
	StateRevalidating
)

func (s EntryState) String() string {
	switch s {
	case StateFresh:
		return "fresh"
	case StateStale:
		return "stale"
	case StateRevalidating:
		return "revalidating"
	}
	return "unknown"
}

// CacheEntry is one resolved theme plus the bookkeeping needed to answer "is
// this still usable and should a refresh be triggered".
type CacheEntry struct {
	Key       string
	Value     Theme
	FetchedAt time.Time
	TTL       time.Duration
}

// Fresh reports whether the entry is within its ttl at the given instant.
func (e *CacheEntry) Fresh(now time.Time) bool {
	return now.Sub(e.FetchedAt) <= e.TTL
}

// State derives the entry's lifecycle state. revalidating is supplied by the
// owner, which knows whether a refresh for the key is in flight.
func (e *CacheEntry) State(now time.Time, revalidating bool) EntryState {
	if e.Fresh(now) {
		return StateFresh
	}
	if revalidating {
		return StateRevalidating
	}
	return StateStale
}

// Cache is a keyed store of resolved themes with time-to-live bookkeeping.
// It never triggers I/O: Get is a pure lookup, and staleness is the caller's
// signal to refresh, not the cache's. A Resolver owns its Cache exclusively;
// instances share no state.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*CacheEntry
	now     func() time.Time // injectable for tests
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
		now:     time.Now,
	}
}

// Get returns the entry for key, regardless of freshness. The boolean is
// false when nothing is cached for the key.
func (c *Cache) Get(key string) (*CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	return entry, ok
}

// Put stores a resolved theme for key, replacing any prior entry and
// restarting its ttl window.
func (c *Cache) Put(key string, value Theme, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = &CacheEntry{
		Key:       key,
		Value:     value,
		FetchedAt: c.now(),
		TTL:       ttl,
	}
}

// Invalidate removes the entry for key, forcing the next resolve to fetch.
// Removing an absent key is a no-op.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*CacheEntry)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Keys returns the cached keys in no particular order.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}
