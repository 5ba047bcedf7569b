package upstream

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/coindex/proxy/pkg/config"
)

// lastPricePattern pulls the quoted rate out of the Google Finance page.
var lastPricePattern = regexp.MustCompile(`data-last-price="([0-9,]+\.?[0-9]*)"`)

// FX scrapes the USD-KRW rate from the Google Finance quote page.
type FX struct {
	url    string
	client *http.Client
}

// NewFX creates an FX quote client from the configured upstream.
func NewFX(cfg config.Upstream) *FX {
	return &FX{
		url:    cfg.BaseURL,
		client: newHTTPClient(cfg.Timeout),
	}
}

// Fetch returns the current USD-KRW rate. Parse failures and implausible
// values (the rate has not been under 1000 KRW this century) are upstream
// errors; the caller keeps its last-known-good value.
func (f *FX) Fetch(ctx context.Context) (float64, error) {
	body, err := fetch(ctx, f.client, "fx", f.url, func(req *http.Request) {
		htmlHeaders(req)
		req.Header.Set("Referer", "https://www.google.com/")
	})
	if err != nil {
		return 0, err
	}

	m := lastPricePattern.FindSubmatch(body)
	if m == nil {
		return 0, &Error{Upstream: "fx", Message: "rate not found in quote page"}
	}
	rate, err := strconv.ParseFloat(strings.ReplaceAll(string(m[1]), ",", ""), 64)
	if err != nil {
		return 0, &Error{Upstream: "fx", Message: "rate parse: " + err.Error()}
	}
	if rate <= 1000 {
		return 0, &Error{Upstream: "fx", Message: "implausible rate: " + string(m[1])}
	}
	return rate, nil
}
