package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/coindex/proxy/pkg/config"
	"github.com/coindex/proxy/pkg/models"
)

// Upbit is the client for the local (KRW) exchange.
type Upbit struct {
	baseURL string
	client  *http.Client
}

// NewUpbit creates an upbit client from the configured upstream.
func NewUpbit(cfg config.Upstream) *Upbit {
	return &Upbit{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  newHTTPClient(cfg.Timeout),
	}
}

// Markets fetches the full market list and filters it to KRW-quoted
// instruments.
func (u *Upbit) Markets(ctx context.Context) ([]models.MarketDescriptor, error) {
	body, err := fetch(ctx, u.client, "upbit", u.baseURL+"/v1/market/all?isDetails=false", jsonHeaders)
	if err != nil {
		return nil, err
	}

	var all []models.MarketDescriptor
	if err := json.Unmarshal(body, &all); err != nil {
		return nil, &Error{Upstream: "upbit", Message: fmt.Sprintf("market list decode: %v", err)}
	}

	krw := all[:0]
	for _, m := range all {
		if strings.HasPrefix(m.Market, "KRW-") {
			krw = append(krw, m)
		}
	}
	return krw, nil
}

// Ticker fetches live snapshots for the given market codes. The upstream caps
// one call at 100 codes; the HTTP surface validates that before calling.
func (u *Upbit) Ticker(ctx context.Context, markets []string) ([]models.TickerSnapshot, error) {
	q := url.Values{"markets": {strings.Join(markets, ",")}}
	body, err := fetch(ctx, u.client, "upbit", u.baseURL+"/v1/ticker?"+q.Encode(), jsonHeaders)
	if err != nil {
		return nil, err
	}

	var snapshots []models.TickerSnapshot
	if err := json.Unmarshal(body, &snapshots); err != nil {
		return nil, &Error{Upstream: "upbit", Message: fmt.Sprintf("ticker decode: %v", err)}
	}
	return snapshots, nil
}
