package upstream

import (
	"context"
	"net/http"
	"strings"

	"github.com/coindex/proxy/pkg/config"
)

// News fetches raw markup from the news aggregator front page.
type News struct {
	url    string
	client *http.Client
}

// NewNews creates a news page client from the configured upstream.
func NewNews(cfg config.Upstream) *News {
	return &News{
		url:    cfg.BaseURL,
		client: newHTTPClient(cfg.Timeout),
	}
}

// FetchHTML returns the page markup. A response that is plainly not HTML is
// an upstream error; whether the markup yields any items is the extractor's
// problem.
func (n *News) FetchHTML(ctx context.Context) (string, error) {
	body, err := fetch(ctx, n.client, "news", n.url, htmlHeaders)
	if err != nil {
		return "", err
	}
	markup := string(body)
	if !strings.Contains(markup, "<") {
		return "", &Error{Upstream: "news", Message: "response does not look like HTML"}
	}
	return markup, nil
}
