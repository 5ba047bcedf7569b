package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/coindex/proxy/pkg/logger"
	"github.com/coindex/proxy/pkg/models"
	"github.com/coindex/proxy/pkg/premium"
	"github.com/coindex/proxy/pkg/translate"
	"github.com/coindex/proxy/pkg/upstream"
	"go.uber.org/zap"
)

// maxTickerMarkets bounds one ticker/premium request; the upbit ticker
// endpoint itself rejects longer lists.
const maxTickerMarkets = 100

type errorResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message,omitempty"`
	Requested int    `json:"requested,omitempty"`
	Redirect  string `json:"redirect,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Error("response encode failed", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, resp errorResponse) {
	writeJSON(w, status, resp)
}

func (s *Server) indexHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>COINDEX Proxy</title></head>
<body>
<h1>COINDEX Proxy</h1>
<ul>
<li><a href="/api/status">/api/status</a></li>
<li><a href="/api/fx">/api/fx</a></li>
<li><a href="/api/fx/status">/api/fx/status</a></li>
<li><a href="/api/binance">/api/binance</a></li>
<li><a href="/api/upbit/markets">/api/upbit/markets</a></li>
<li><a href="/api/upbit?markets=KRW-BTC,KRW-ETH">/api/upbit?markets=KRW-BTC,KRW-ETH</a></li>
<li><a href="/api/premium?markets=KRW-BTC,KRW-ETH">/api/premium?markets=KRW-BTC,KRW-ETH</a></li>
<li><a href="/api/news">/api/news</a></li>
</ul>
</body>
</html>`))
}

func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"message":   "COINDEX proxy is running",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

type fxResponse struct {
	USDKRW    float64 `json:"USD_KRW"`
	Timestamp int64   `json:"timestamp"`
	Cached    bool    `json:"cached"`
	Fallback  bool    `json:"fallback,omitempty"`
}

// fxHandler serves the USD-KRW rate. Fresh cache -> cached:true. Stale ->
// synchronous refresh; on success cached:false, on failure the last-known
// rate with fallback:true. Always 200: a rate is always available.
func (s *Server) fxHandler(w http.ResponseWriter, r *http.Request) {
	rate, fetchedAt, fresh := s.fxCache.Rate()
	if fresh {
		writeJSON(w, http.StatusOK, fxResponse{USDKRW: rate, Timestamp: fetchedAt.UnixMilli(), Cached: true})
		return
	}

	refreshed, err := s.fxCache.Refresh(r.Context())
	if err != nil {
		writeJSON(w, http.StatusOK, fxResponse{USDKRW: rate, Timestamp: fetchedAt.UnixMilli(), Cached: true, Fallback: true})
		return
	}
	_, fetchedAt, _ = s.fxCache.Rate()
	writeJSON(w, http.StatusOK, fxResponse{USDKRW: refreshed, Timestamp: fetchedAt.UnixMilli(), Cached: false})
}

func (s *Server) fxUpdateHandler(w http.ResponseWriter, r *http.Request) {
	rate, err := s.fxCache.Refresh(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, errorResponse{
			Error:   "fx refresh failed",
			Message: err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"USD_KRW":   rate,
		"timestamp": time.Now().UnixMilli(),
	})
}

func (s *Server) fxStatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.fxCache.Snapshot())
}

// binanceHandler proxies the binance 24h ticker verbatim, behind the
// per-upstream minimum interval.
func (s *Server) binanceHandler(w http.ResponseWriter, r *http.Request) {
	if !s.limiter.TryAcquire("binance") {
		writeError(w, http.StatusTooManyRequests, errorResponse{
			Error:   "rate limit exceeded",
			Message: "binance requests are limited to one per second",
		})
		return
	}

	raw, err := s.binance.Ticker24h(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(raw)
}

func (s *Server) upbitMarketsHandler(w http.ResponseWriter, r *http.Request) {
	list, err := s.markets.Get(r.Context())
	if err != nil {
		writeUpstreamError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// upbitTickerHandler proxies live ticker data; never cached, so every request
// costs one upstream call.
func (s *Server) upbitTickerHandler(w http.ResponseWriter, r *http.Request) {
	codes, errResp := parseMarketsParam(r)
	if errResp != nil {
		writeError(w, http.StatusBadRequest, *errResp)
		return
	}

	snapshots, err := s.upbit.Ticker(r.Context(), codes)
	if err != nil {
		logger.Log.Warn("upbit ticker fetch failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, errorResponse{
			Error:   "local exchange temporarily unavailable",
			Message: "live prices have no fallback, please retry shortly",
		})
		return
	}
	writeJSON(w, http.StatusOK, snapshots)
}

// premiumHandler merges live local prices, live foreign prices and the cached
// FX rate into per-instrument premium rows. The merged result is never
// cached: its inputs age independently.
func (s *Server) premiumHandler(w http.ResponseWriter, r *http.Request) {
	codes, errResp := parseMarketsParam(r)
	if errResp != nil {
		writeError(w, http.StatusBadRequest, *errResp)
		return
	}

	if !s.limiter.TryAcquire("binance") {
		writeError(w, http.StatusTooManyRequests, errorResponse{
			Error:   "rate limit exceeded",
			Message: "binance requests are limited to one per second",
		})
		return
	}

	snapshots, err := s.upbit.Ticker(r.Context(), codes)
	if err != nil {
		logger.Log.Warn("upbit ticker fetch failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, errorResponse{
			Error:   "local exchange temporarily unavailable",
			Message: "live prices have no fallback, please retry shortly",
		})
		return
	}

	raw, err := s.binance.Ticker24h(r.Context())
	if err != nil {
		logger.Log.Warn("binance ticker fetch failed", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, errorResponse{
			Error:   "foreign exchange temporarily unavailable",
			Message: "live prices have no fallback, please retry shortly",
		})
		return
	}
	foreign, err := models.BinancePriceMap(raw)
	if err != nil {
		logger.Log.Warn("binance ticker parse failed", zap.Error(err))
		writeError(w, http.StatusBadGateway, errorResponse{Error: "foreign exchange returned malformed data"})
		return
	}

	fxRate, _, _ := s.fxCache.Rate()
	names := s.marketNames(r)

	rows := make([]models.PremiumRow, 0, len(snapshots))
	for _, snap := range snapshots {
		row := models.PremiumRow{
			Market:           snap.Market,
			KoreanName:       names[snap.Market],
			TradePrice:       snap.TradePrice,
			SignedChangeRate: snap.SignedChangeRate,
			AccTradePrice24h: snap.AccTradePrice24h,
			FXRate:           fxRate,
		}
		if usd, ok := foreign[snap.Symbol()]; ok {
			row.BinancePrice = &usd
			if p, ok := premium.Compute(snap.TradePrice, usd, fxRate); ok {
				row.Premium = &p
			}
		}
		rows = append(rows, row)
	}
	writeJSON(w, http.StatusOK, rows)
}

// marketNames returns the market -> korean display name index, best effort.
func (s *Server) marketNames(r *http.Request) map[string]string {
	list, err := s.markets.Get(r.Context())
	if err != nil {
		return nil
	}
	names := make(map[string]string, len(list))
	for _, m := range list {
		names[m.Market] = m.KoreanName
	}
	return names
}

func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.news.Get(r.Context()))
}

type translateRequest struct {
	Text string `json:"text"`
}

func (s *Server) translateHandler(w http.ResponseWriter, r *http.Request) {
	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, errorResponse{Error: "text is required"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"translatedText": translate.Translate(req.Text),
		"originalText":   req.Text,
		"source":         "ko",
		"target":         "ko",
	})
}

func (s *Server) rssGoneHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusGone, errorResponse{
		Error:    "this endpoint is no longer available",
		Message:  "the RSS feed was replaced by extracted headlines",
		Redirect: "/api/news",
	})
}

// parseMarketsParam splits and bounds the comma-separated markets query
// parameter shared by the ticker and premium endpoints.
func parseMarketsParam(r *http.Request) ([]string, *errorResponse) {
	raw := r.URL.Query().Get("markets")
	if strings.TrimSpace(raw) == "" {
		return nil, &errorResponse{
			Error:   "markets query parameter is required",
			Message: "e.g. ?markets=KRW-BTC,KRW-ETH",
		}
	}

	parts := strings.Split(raw, ",")
	codes := make([]string, 0, len(parts))
	for _, p := range parts {
		if code := strings.TrimSpace(p); code != "" {
			codes = append(codes, code)
		}
	}
	if len(codes) == 0 {
		return nil, &errorResponse{
			Error:   "markets query parameter is required",
			Message: "e.g. ?markets=KRW-BTC,KRW-ETH",
		}
	}
	if len(codes) > maxTickerMarkets {
		return nil, &errorResponse{
			Error:     "too many markets requested",
			Message:   "at most 100 markets per request",
			Requested: len(codes),
		}
	}
	return codes, nil
}

// writeUpstreamError maps an upstream failure onto the response: a received
// upstream status passes through as 502 with the detail, anything else is a
// generic 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var ue *upstream.Error
	if errors.As(err, &ue) {
		writeError(w, http.StatusBadGateway, errorResponse{
			Error:   ue.Upstream + " upstream error",
			Message: ue.Message,
		})
		return
	}
	writeError(w, http.StatusBadGateway, errorResponse{Error: "upstream error", Message: err.Error()})
}
