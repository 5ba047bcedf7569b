package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coindex/proxy/pkg/cache"
	"github.com/coindex/proxy/pkg/fx"
	"github.com/coindex/proxy/pkg/logger"
	"github.com/coindex/proxy/pkg/markets"
	"github.com/coindex/proxy/pkg/metrics"
	"github.com/coindex/proxy/pkg/models"
	"github.com/coindex/proxy/pkg/news"
	"github.com/coindex/proxy/pkg/ratelimit"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// upbitTicker is the slice of the upbit client the server uses directly;
// the market list goes through the markets service.
type upbitTicker interface {
	Ticker(ctx context.Context, markets []string) ([]models.TickerSnapshot, error)
}

type binanceTicker interface {
	Ticker24h(ctx context.Context) (json.RawMessage, error)
}

// Server wires the cache, limiter, clients and services behind the HTTP
// surface. Everything is injected so tests can instantiate isolated copies.
type Server struct {
	cache   *cache.Cache
	limiter *ratelimit.Limiter
	upbit   upbitTicker
	binance binanceTicker
	fxCache *fx.Cache
	news    *news.Service
	markets *markets.Service
}

func NewServer(
	c *cache.Cache,
	limiter *ratelimit.Limiter,
	upbit upbitTicker,
	binance binanceTicker,
	fxCache *fx.Cache,
	newsSvc *news.Service,
	marketsSvc *markets.Service,
) *Server {
	return &Server{
		cache:   c,
		limiter: limiter,
		upbit:   upbit,
		binance: binance,
		fxCache: fxCache,
		news:    newsSvc,
		markets: marketsSvc,
	}
}

// Router builds the chi router with CORS, logging and metrics middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept"},
		AllowCredentials: false,
	}))
	r.Use(loggingMiddleware)
	r.Use(metricsMiddleware)

	r.Get("/", s.indexHandler)
	r.Get("/health", s.statusHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", s.statusHandler)
		r.Get("/fx", s.fxHandler)
		r.Post("/fx/update", s.fxUpdateHandler)
		r.Get("/fx/status", s.fxStatusHandler)
		r.Get("/binance", s.binanceHandler)
		r.Get("/upbit", s.upbitTickerHandler)
		r.Get("/upbit/markets", s.upbitMarketsHandler)
		r.Get("/premium", s.premiumHandler)
		r.Get("/news", s.newsHandler)
		r.Post("/translate", s.translateHandler)
		r.Get("/coinness-rss", s.rssGoneHandler)
	})

	return r
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		logger.Log.Info("HTTP request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("remote_addr", r.RemoteAddr),
			zap.Duration("duration", time.Since(start)))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, r)
		duration := time.Since(start).Seconds()

		status := http.StatusText(sw.status)
		metrics.APIRequestDuration.WithLabelValues(r.Method, r.URL.Path, status).Observe(duration)
		metrics.APIRequestTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
