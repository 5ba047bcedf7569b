// Package fx holds the USD-KRW exchange rate cache. One numeric rate, a
// fixed TTL, and a hardcoded last-known-good default served until the first
// successful refresh.
package fx

import (
	"context"
	"sync"
	"time"

	"github.com/coindex/proxy/pkg/logger"
	"github.com/coindex/proxy/pkg/metrics"
	"go.uber.org/zap"
)

// DefaultRate is served before the first successful upstream refresh.
const DefaultRate = 1353.08

// Fetcher fetches the live rate from the FX quote source.
type Fetcher interface {
	Fetch(ctx context.Context) (float64, error)
}

// Status is the raw cache introspection payload for /api/fx/status.
type Status struct {
	Rate      float64 `json:"rate"`
	Timestamp int64   `json:"timestamp"`
	TTLMillis int64   `json:"ttl_ms"`
}

// Cache guards the rate with a mutex; the scheduled refresh and request
// handlers overwrite it with a single assignment, so readers see either the
// old or the new value, never a torn one.
type Cache struct {
	mu        sync.Mutex
	rate      float64
	fetchedAt time.Time
	ttl       time.Duration
	fetcher   Fetcher
	now       func() time.Time
}

// NewCache seeds the cache with the last-known-good default.
func NewCache(fetcher Fetcher, ttl time.Duration) *Cache {
	c := &Cache{
		rate:    DefaultRate,
		ttl:     ttl,
		fetcher: fetcher,
		now:     time.Now,
	}
	c.fetchedAt = c.now()
	return c
}

// SetClock overrides the time source. Test hook.
func (c *Cache) SetClock(now func() time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}

// Rate returns the current rate, when it was fetched, and whether it is still
// within TTL.
func (c *Cache) Rate() (rate float64, fetchedAt time.Time, fresh bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate, c.fetchedAt, c.now().Sub(c.fetchedAt) < c.ttl
}

// Refresh fetches a new rate from upstream. On failure the previous value
// stays in place and the error is returned; the caller decides whether that
// is fatal (it never is for request serving).
func (c *Cache) Refresh(ctx context.Context) (float64, error) {
	rate, err := c.fetcher.Fetch(ctx)
	if err != nil {
		metrics.FXRefreshErrors.Inc()
		logger.Log.Warn("fx refresh failed, keeping last-known rate", zap.Error(err))
		return 0, err
	}

	c.mu.Lock()
	c.rate = rate
	c.fetchedAt = c.now()
	c.mu.Unlock()

	metrics.FXRefreshCounter.Inc()
	logger.Log.Info("fx cache refreshed", zap.Float64("usd_krw", rate))
	return rate, nil
}

// Snapshot returns the raw cache state for introspection.
func (c *Cache) Snapshot() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Status{
		Rate:      c.rate,
		Timestamp: c.fetchedAt.UnixMilli(),
		TTLMillis: c.ttl.Milliseconds(),
	}
}
