// Package cache implements the per-key TTL store backing the cacheable data
// types (markets, news). State is in-process only; each instance of the proxy
// tracks its own TTLs.
package cache

import (
	"sync"
	"time"

	"github.com/coindex/proxy/pkg/metrics"
)

type entry struct {
	payload   interface{}
	fetchedAt time.Time
}

// Cache is a per-key, per-TTL store of the most-recently-fetched payloads.
// Entries are only ever superseded, never deleted. Updates are
// last-writer-wins; a lost update costs one extra upstream call, nothing more.
type Cache struct {
	mu      sync.Mutex
	entries map[string]entry
	ttls    map[string]time.Duration
	now     func() time.Time
}

// New creates a Cache with statically configured TTLs per logical key.
// A TTL of zero means caching is disabled for that key; callers must check
// Enabled and bypass the cache entirely rather than rely on Get missing.
func New(ttls map[string]time.Duration) *Cache {
	return &Cache{
		entries: make(map[string]entry),
		ttls:    ttls,
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Enabled reports whether key has a positive TTL configured.
func (c *Cache) Enabled(key string) bool {
	return c.ttls[key] > 0
}

// Get returns the cached payload for key, or ok=false when there is no entry
// or the entry's age exceeds its TTL. A miss means "go fetch".
func (c *Cache) Get(key string) (interface{}, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ttl := c.ttls[key]
	if ttl <= 0 {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return nil, false
	}
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= ttl {
		metrics.CacheMisses.WithLabelValues(key).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(key).Inc()
	return e.payload, true
}

// Set stores payload for key, overwriting any previous entry.
func (c *Cache) Set(key string, payload interface{}) {
	c.mu.Lock()
	c.entries[key] = entry{payload: payload, fetchedAt: c.now()}
	c.mu.Unlock()
}

// Age returns how long ago key was last set, and whether an entry exists at
// all (regardless of freshness).
func (c *Cache) Age(key string) (time.Duration, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return 0, false
	}
	return c.now().Sub(e.fetchedAt), true
}
