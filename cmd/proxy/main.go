package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coindex/proxy/pkg/cache"
	"github.com/coindex/proxy/pkg/config"
	"github.com/coindex/proxy/pkg/fallback"
	"github.com/coindex/proxy/pkg/fx"
	"github.com/coindex/proxy/pkg/logger"
	"github.com/coindex/proxy/pkg/markets"
	"github.com/coindex/proxy/pkg/metrics"
	"github.com/coindex/proxy/pkg/news"
	"github.com/coindex/proxy/pkg/ratelimit"
	"github.com/coindex/proxy/pkg/upstream"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environments set variables directly
	godotenv.Load()

	if err := logger.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log := logger.Log
	defer log.Sync()

	log.Info("starting coindex proxy")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration", zap.Error(err))
	}
	log.Info("configuration loaded",
		zap.Int("port", cfg.HTTPPort),
		zap.String("upbit", cfg.Upbit.BaseURL),
		zap.String("binance", cfg.Binance.BaseURL))

	// Cache TTLs per logical key; ticker data stays uncached on purpose.
	dataCache := cache.New(map[string]time.Duration{
		markets.CacheKey: cfg.MarketsTTL,
		news.CacheKey:    cfg.NewsTTL,
	})
	limiter := ratelimit.New(map[string]time.Duration{
		"binance": cfg.BinanceMinInterval,
	})

	upbitClient := upstream.NewUpbit(cfg.Upbit)
	binanceClient := upstream.NewBinance(cfg.Binance)
	fxClient := upstream.NewFX(cfg.FXQuote)
	newsClient := upstream.NewNews(cfg.News)

	bundled, err := fallback.LoadMarkets(cfg.MarketListPath)
	if err != nil {
		log.Warn("bundled market list unavailable", zap.String("path", cfg.MarketListPath), zap.Error(err))
	}

	marketsSvc := markets.NewService(upbitClient, dataCache, bundled)
	marketsSvc.Seed()

	newsSvc := news.NewService(newsClient, dataCache)
	fxCache := fx.NewCache(fxClient, cfg.FXTTL)

	// Eager FX refresh so the hardcoded default is replaced as soon as
	// possible; failure is non-fatal, the default serves until the next tick.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		fxCache.Refresh(ctx)
	}()

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@every 5m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		fxCache.Refresh(ctx)
	}); err != nil {
		log.Fatal("failed to schedule fx refresh", zap.Error(err))
	}
	scheduler.Start()

	srv := NewServer(dataCache, limiter, upbitClient, binanceClient, fxCache, newsSvc, marketsSvc)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      srv.Router(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.MetricsPort),
		Handler: metricsRouter(),
	}

	go func() {
		log.Info("starting metrics server", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server failed", zap.Error(err))
		}
	}()

	go func() {
		log.Info("starting HTTP server", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}
	if err := metricsServer.Shutdown(ctx); err != nil {
		log.Error("metrics server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}

func metricsRouter() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
