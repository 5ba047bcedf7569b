// Package upstream holds the thin fetch clients for the external data
// providers: the upbit ticker/market feed, the binance 24h ticker feed, the
// Google Finance USD-KRW quote page and the Coinness news page.
//
// Each client carries one timeout, one keep-alive connection pool and a fixed
// browser-like header set. Clients never retry; recovery policy belongs to
// the HTTP surface.
package upstream

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/coindex/proxy/pkg/metrics"
)

// Error is returned for any upstream failure: non-2xx status, malformed
// body, or timeout. Status is zero when no HTTP response was received.
type Error struct {
	Upstream string
	Status   int
	Message  string
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s upstream error (status %d): %s", e.Upstream, e.Status, e.Message)
	}
	return fmt.Sprintf("%s upstream error: %s", e.Upstream, e.Message)
}

const userAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// newHTTPClient builds a client with connection reuse tuned for polling a
// single host.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        50,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     30 * time.Second,
		},
	}
}

// jsonHeaders is the fixed header set for the JSON API upstreams.
func jsonHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
}

// htmlHeaders is the header set for upstreams that serve markup; these must
// accept HTML, unlike the JSON clients.
func htmlHeaders(req *http.Request) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
}

// fetch performs one GET against the named upstream, records metrics, and
// normalizes every failure mode into *Error.
func fetch(ctx context.Context, client *http.Client, name, url string, setHeaders func(*http.Request)) ([]byte, error) {
	start := time.Now()
	body, status, err := doGet(ctx, client, url, setHeaders)
	metrics.UpstreamRequestDuration.WithLabelValues(name, statusLabel(status, err)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamErrors.WithLabelValues(name).Inc()
		return nil, &Error{Upstream: name, Status: status, Message: err.Error()}
	}
	return body, nil
}

func doGet(ctx context.Context, client *http.Client, url string, setHeaders func(*http.Request)) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, err
	}
	setHeaders(req)

	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

func statusLabel(status int, err error) string {
	if err != nil {
		return "error"
	}
	return strconv.Itoa(status)
}
