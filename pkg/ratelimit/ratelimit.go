// Package ratelimit gates upstream calls behind a per-upstream minimum
// interval. A single shared state per upstream name, not per request.
package ratelimit

import (
	"sync"
	"time"

	"github.com/coindex/proxy/pkg/metrics"
)

// Limiter tracks the last granted acquisition per upstream name.
// lastCall advances at the moment permission is granted, not when the call
// completes, so a slow upstream response cannot admit a burst behind it.
type Limiter struct {
	mu        sync.Mutex
	intervals map[string]time.Duration
	lastCall  map[string]time.Time
	now       func() time.Time
}

// New creates a Limiter with the given minimum intervals. Upstream names
// without a configured interval are always granted.
func New(intervals map[string]time.Duration) *Limiter {
	return &Limiter{
		intervals: intervals,
		lastCall:  make(map[string]time.Time),
		now:       time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (l *Limiter) SetClock(now func() time.Time) {
	l.mu.Lock()
	l.now = now
	l.mu.Unlock()
}

// TryAcquire reports whether a call to the named upstream is permitted now.
// Denied callers must surface a rate-limit error, never block and retry.
func (l *Limiter) TryAcquire(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	interval, ok := l.intervals[name]
	if !ok || interval <= 0 {
		return true
	}

	now := l.now()
	if last, ok := l.lastCall[name]; ok && now.Sub(last) < interval {
		metrics.RateLimitDenied.WithLabelValues(name).Inc()
		return false
	}
	l.lastCall[name] = now
	return true
}
