package config

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Upstream holds the base URL for one external data provider.
type Upstream struct {
	BaseURL string
	Timeout time.Duration
}

type Config struct {
	HTTPPort    int
	MetricsPort int

	Upbit   Upstream
	Binance Upstream
	FXQuote Upstream
	News    Upstream

	// MarketListPath points at the bundled KRW market list used to seed
	// the markets cache before the server accepts requests.
	MarketListPath string

	MarketsTTL time.Duration
	NewsTTL    time.Duration
	FXTTL      time.Duration

	BinanceMinInterval time.Duration
}

// Load reads environment variables and application flags (via a local FlagSet),
// strips out any -test.* flags, and validates required fields.
func Load() (*Config, error) {
	// Fresh FlagSet so we don't collide with `go test` flags.
	fs := flag.NewFlagSet("config", flag.ContinueOnError)

	var httpPort int
	var metricsPort int
	var marketListPath string
	fs.IntVar(&httpPort, "port", 4000, "HTTP listen port")
	fs.IntVar(&metricsPort, "metrics-port", 9100, "Metrics server port")
	fs.StringVar(&marketListPath, "market-list", getEnvOrDefault("MARKET_LIST_PATH", "data/upbit_krw_list.txt"), "bundled KRW market list file")

	// Filter out any -test.* args before parsing.
	var appArgs []string
	for _, arg := range os.Args[1:] {
		if strings.HasPrefix(arg, "-test.") {
			continue
		}
		appArgs = append(appArgs, arg)
	}
	if err := fs.Parse(appArgs); err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPPort:       httpPort,
		MetricsPort:    metricsPort,
		MarketListPath: marketListPath,
		Upbit: Upstream{
			BaseURL: getEnvOrDefault("UPBIT_URL", "https://api.upbit.com"),
			Timeout: 10 * time.Second,
		},
		Binance: Upstream{
			BaseURL: getEnvOrDefault("BINANCE_URL", "https://api.binance.com"),
			Timeout: 10 * time.Second,
		},
		FXQuote: Upstream{
			BaseURL: getEnvOrDefault("FX_QUOTE_URL", "https://www.google.com/finance/quote/USD-KRW"),
			Timeout: 10 * time.Second,
		},
		News: Upstream{
			BaseURL: getEnvOrDefault("NEWS_URL", "https://coinness.com/"),
			Timeout: 15 * time.Second,
		},
		MarketsTTL:         24 * time.Hour,
		NewsTTL:            20 * time.Minute,
		FXTTL:              5 * time.Minute,
		BinanceMinInterval: time.Second,
	}

	// PORT env var overrides flag/default if set.
	if portEnv := os.Getenv("PORT"); portEnv != "" {
		if portVal, err := strconv.Atoi(portEnv); err == nil {
			cfg.HTTPPort = portVal
		} else {
			return nil, fmt.Errorf("invalid PORT env var: %v", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.MarketListPath == "" {
		return fmt.Errorf("missing required config: MARKET_LIST_PATH or -market-list")
	}
	for _, u := range []struct {
		name string
		up   Upstream
	}{
		{"UPBIT_URL", c.Upbit},
		{"BINANCE_URL", c.Binance},
		{"FX_QUOTE_URL", c.FXQuote},
		{"NEWS_URL", c.News},
	} {
		if u.up.BaseURL == "" {
			return fmt.Errorf("missing required config: %s", u.name)
		}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
