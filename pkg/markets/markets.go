// Package markets serves the KRW instrument list: cached day-scale, seeded
// from the bundled fallback list before the server accepts requests.
package markets

import (
	"context"

	"github.com/coindex/proxy/pkg/cache"
	"github.com/coindex/proxy/pkg/logger"
	"github.com/coindex/proxy/pkg/metrics"
	"github.com/coindex/proxy/pkg/models"
	"go.uber.org/zap"
)

// CacheKey is the logical cache key for the market list.
const CacheKey = "markets"

// Lister fetches the live market list from the local exchange.
type Lister interface {
	Markets(ctx context.Context) ([]models.MarketDescriptor, error)
}

type Service struct {
	lister   Lister
	cache    *cache.Cache
	fallback []models.MarketDescriptor
}

func NewService(lister Lister, c *cache.Cache, fallback []models.MarketDescriptor) *Service {
	return &Service{lister: lister, cache: c, fallback: fallback}
}

// Seed loads the bundled fallback list into the cache. Called once before
// the listener starts, so the very first response is never empty.
func (s *Service) Seed() {
	if len(s.fallback) == 0 {
		logger.Log.Warn("no fallback market list available, cold start serves live data only")
		return
	}
	s.cache.Set(CacheKey, s.fallback)
	logger.Log.Info("markets cache seeded from bundled list", zap.Int("count", len(s.fallback)))
}

// Get returns the instrument list: cache first, then live, then the bundled
// fallback. The fallback is cached too, so a dead upstream costs one call
// per TTL window, not one per request. Returns an error only when the live
// call fails and no fallback exists.
func (s *Service) Get(ctx context.Context) ([]models.MarketDescriptor, error) {
	if cached, ok := s.cache.Get(CacheKey); ok {
		return cached.([]models.MarketDescriptor), nil
	}

	live, err := s.lister.Markets(ctx)
	if err == nil {
		s.cache.Set(CacheKey, live)
		logger.Log.Info("markets list refreshed from upstream", zap.Int("count", len(live)))
		return live, nil
	}

	if len(s.fallback) > 0 {
		logger.Log.Warn("markets fetch failed, re-seeding from bundled list", zap.Error(err))
		metrics.FallbackServed.WithLabelValues("markets").Inc()
		s.cache.Set(CacheKey, s.fallback)
		return s.fallback, nil
	}
	return nil, err
}
