// Package news implements the headline pipeline: fetch markup from the news
// source, extract headline fragments, fall back to canned content when the
// fetch or the extraction comes up empty.
package news

import (
	"context"
	"time"

	"github.com/coindex/proxy/pkg/cache"
	"github.com/coindex/proxy/pkg/fallback"
	"github.com/coindex/proxy/pkg/logger"
	"github.com/coindex/proxy/pkg/metrics"
	"github.com/coindex/proxy/pkg/models"
	"go.uber.org/zap"
)

// CacheKey is the logical cache key for the news item list.
const CacheKey = "news"

// Fetcher fetches raw markup from the news source.
type Fetcher interface {
	FetchHTML(ctx context.Context) (string, error)
}

type Service struct {
	fetcher Fetcher
	cache   *cache.Cache
	now     func() time.Time
}

func NewService(fetcher Fetcher, c *cache.Cache) *Service {
	return &Service{fetcher: fetcher, cache: c, now: time.Now}
}

// SetClock overrides the time source. Test hook.
func (s *Service) SetClock(now func() time.Time) { s.now = now }

// Get returns the current item list. Each result set wholly replaces the
// previous one. Fallback results are not cached, so the next request retries
// the live source.
func (s *Service) Get(ctx context.Context) []models.NewsItem {
	if cached, ok := s.cache.Get(CacheKey); ok {
		return cached.([]models.NewsItem)
	}

	markup, err := s.fetcher.FetchHTML(ctx)
	if err != nil {
		logger.Log.Warn("news fetch failed, serving fallback", zap.Error(err))
		metrics.FallbackServed.WithLabelValues("news").Inc()
		return fallback.News(s.now())
	}

	items := Extract(markup, s.now())
	if len(items) == 0 {
		logger.Log.Warn("news extraction yielded no items, serving fallback")
		metrics.NewsExtractionEmpty.Inc()
		metrics.FallbackServed.WithLabelValues("news").Inc()
		return fallback.News(s.now())
	}

	metrics.NewsExtracted.Add(float64(len(items)))
	s.cache.Set(CacheKey, items)
	return items
}
