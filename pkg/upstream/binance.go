package upstream

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/coindex/proxy/pkg/config"
)

// Binance is the client for the foreign exchange's 24h ticker feed.
type Binance struct {
	baseURL string
	client  *http.Client
}

// NewBinance creates a binance client from the configured upstream.
func NewBinance(cfg config.Upstream) *Binance {
	return &Binance{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Ticker24h fetches 24h stats for all instruments. The payload is returned
// raw so /api/binance can pass it through byte-for-byte; callers that need
// prices parse it with models.BinancePriceMap.
func (b *Binance) Ticker24h(ctx context.Context) (json.RawMessage, error) {
	body, err := fetch(ctx, b.client, "binance", b.baseURL+"/api/v3/ticker/24hr", jsonHeaders)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, &Error{Upstream: "binance", Message: "ticker response is not valid JSON"}
	}
	return json.RawMessage(body), nil
}
