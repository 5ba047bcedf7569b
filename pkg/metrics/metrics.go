package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream metrics
	UpstreamRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proxy_upstream_request_duration_seconds",
			Help:    "Upstream request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"upstream", "status"},
	)
	UpstreamErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_upstream_errors_total",
			Help: "Total upstream request failures",
		},
		[]string{"upstream"},
	)

	// Cache metrics
	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_cache_hits_total",
			Help: "Cache hits by key",
		},
		[]string{"key"},
	)
	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_cache_misses_total",
			Help: "Cache misses by key",
		},
		[]string{"key"},
	)

	// Rate limiter metrics
	RateLimitDenied = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_ratelimit_denied_total",
			Help: "Requests denied by the per-upstream rate limiter",
		},
		[]string{"upstream"},
	)

	// Fallback metrics
	FallbackServed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_fallback_served_total",
			Help: "Responses served from static fallback data",
		},
		[]string{"data_type"},
	)

	// FX refresh metrics
	FXRefreshCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proxy_fx_refresh_total",
			Help: "Total FX cache refreshes",
		})
	FXRefreshErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proxy_fx_refresh_errors_total",
			Help: "FX cache refresh failures",
		})

	// News extraction metrics
	NewsExtracted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proxy_news_items_extracted_total",
			Help: "News items extracted from live markup",
		})
	NewsExtractionEmpty = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "proxy_news_extraction_empty_total",
			Help: "Extractions that yielded zero usable items",
		})

	// API metrics
	APIRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint", "status"},
	)
	APIRequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total API requests",
		},
		[]string{"method", "endpoint", "status"},
	)
)

func init() {
	// MustRegister panics if registration fails (e.g. duplicate)
	prometheus.MustRegister(
		UpstreamRequestDuration, UpstreamErrors,
		CacheHits, CacheMisses,
		RateLimitDenied,
		FallbackServed,
		FXRefreshCounter, FXRefreshErrors,
		NewsExtracted, NewsExtractionEmpty,
		APIRequestDuration, APIRequestTotal,
	)
}

// Handler returns the Prometheus scrape handler for the metrics server.
func Handler() http.Handler {
	return promhttp.Handler()
}
