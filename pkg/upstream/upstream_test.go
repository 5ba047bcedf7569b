package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/coindex/proxy/pkg/config"
)

func upstreamCfg(url string) config.Upstream {
	return config.Upstream{BaseURL: url, Timeout: 2 * time.Second}
}

func TestUpbitMarkets_FiltersKRW(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/market/all" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua == "" || ua == "Go-http-client/1.1" {
			t.Errorf("expected browser-like User-Agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"market":"KRW-BTC","korean_name":"비트코인","english_name":"Bitcoin"},
			{"market":"BTC-ETH","korean_name":"이더리움","english_name":"Ethereum"},
			{"market":"KRW-ETH","korean_name":"이더리움","english_name":"Ethereum"}
		]`))
	}))
	defer srv.Close()

	u := NewUpbit(upstreamCfg(srv.URL))
	markets, err := u.Markets(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("len = %d; want 2 (KRW only)", len(markets))
	}
	if markets[0].Market != "KRW-BTC" || markets[1].Market != "KRW-ETH" {
		t.Errorf("markets = %+v", markets)
	}
}

func TestUpbitTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("markets"); got != "KRW-BTC,KRW-ETH" {
			t.Errorf("markets param = %q", got)
		}
		w.Write([]byte(`[
			{"market":"KRW-BTC","trade_price":96200000,"signed_change_rate":0.012,"signed_change_price":1150000,"acc_trade_price_24h":250000000000},
			{"market":"KRW-ETH","trade_price":4100000,"signed_change_rate":-0.004,"signed_change_price":-16000,"acc_trade_price_24h":90000000000}
		]`))
	}))
	defer srv.Close()

	u := NewUpbit(upstreamCfg(srv.URL))
	snaps, err := u.Ticker(context.Background(), []string{"KRW-BTC", "KRW-ETH"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("len = %d; want 2", len(snaps))
	}
	if snaps[0].TradePrice != 96200000 {
		t.Errorf("TradePrice = %v", snaps[0].TradePrice)
	}
}

func TestUpbitTicker_Non200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	u := NewUpbit(upstreamCfg(srv.URL))
	_, err := u.Ticker(context.Background(), []string{"KRW-BTC"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	var ue *Error
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T; want *upstream.Error", err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Errorf("Status = %d; want 429", ue.Status)
	}
	if ue.Upstream != "upbit" {
		t.Errorf("Upstream = %q; want upbit", ue.Upstream)
	}
}

func TestUpbitMarkets_MalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>maintenance</html>`))
	}))
	defer srv.Close()

	u := NewUpbit(upstreamCfg(srv.URL))
	if _, err := u.Markets(context.Background()); err == nil {
		t.Fatal("expected decode error, got nil")
	}
}

func TestBinanceTicker24h_Passthrough(t *testing.T) {
	payload := `[{"symbol":"BTCUSDT","lastPrice":"65000.50","extra":"kept"}]`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/24hr" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	b := NewBinance(upstreamCfg(srv.URL))
	raw, err := b.Ticker24h(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != payload {
		t.Errorf("raw = %s; want byte-for-byte passthrough", raw)
	}
}

func TestBinanceTicker24h_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	b := NewBinance(upstreamCfg(srv.URL))
	if _, err := b.Ticker24h(context.Background()); err == nil {
		t.Fatal("expected error for non-JSON body, got nil")
	}
}

func TestFXFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ref := r.Header.Get("Referer"); ref != "https://www.google.com/" {
			t.Errorf("Referer = %q", ref)
		}
		w.Write([]byte(`<div data-last-price="1,353.08" data-currency="KRW"></div>`))
	}))
	defer srv.Close()

	f := NewFX(upstreamCfg(srv.URL))
	rate, err := f.Fetch(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rate != 1353.08 {
		t.Errorf("rate = %v; want 1353.08", rate)
	}
}

func TestFXFetch_NoMatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>nothing here</html>`))
	}))
	defer srv.Close()

	f := NewFX(upstreamCfg(srv.URL))
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error when rate is absent, got nil")
	}
}

func TestFXFetch_ImplausibleRate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div data-last-price="3.50"></div>`))
	}))
	defer srv.Close()

	f := NewFX(upstreamCfg(srv.URL))
	if _, err := f.Fetch(context.Background()); err == nil {
		t.Fatal("expected error for implausible rate, got nil")
	}
}

func TestNewsFetchHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept == "" || accept == "application/json, text/plain, */*" {
			t.Errorf("news client must accept HTML, Accept = %q", accept)
		}
		w.Write([]byte(`<html><h2>비트코인 상승</h2></html>`))
	}))
	defer srv.Close()

	n := NewNews(upstreamCfg(srv.URL))
	markup, err := n.FetchHTML(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if markup == "" {
		t.Error("expected markup")
	}
}

func TestNewsFetchHTML_NotHTML(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`plain text`))
	}))
	defer srv.Close()

	n := NewNews(upstreamCfg(srv.URL))
	if _, err := n.FetchHTML(context.Background()); err == nil {
		t.Fatal("expected error for non-HTML body, got nil")
	}
}

func TestFetch_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	u := NewUpbit(config.Upstream{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := u.Markets(context.Background())
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	var ue *Error
	if !errors.As(err, &ue) {
		t.Fatalf("error type = %T; want *upstream.Error", err)
	}
	if ue.Status != 0 {
		t.Errorf("Status = %d; want 0 for transport failure", ue.Status)
	}
}
