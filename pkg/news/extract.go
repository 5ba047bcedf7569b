package news

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/coindex/proxy/pkg/models"
	"github.com/coindex/proxy/pkg/validation"
)

const maxItems = 20

// headingPattern matches the text of h1..h6 tags. The news source renders
// headlines as plain heading text, so this is deliberately crude: a
// structural change upstream degrades to zero items, never to a crash.
var headingPattern = regexp.MustCompile(`(?i)<h[1-6][^>]*>([^<]+)</h[1-6]>`)

// marketTerms is the fixed vocabulary a candidate headline must mention.
var marketTerms = []string{
	"비트코인", "이더리움", "암호화폐", "블록체인", "디파이",
	"bitcoin", "ethereum", "crypto", "defi", "nft", "btc", "eth",
}

// categoryRules assign a coarse category from the title, first match wins.
var categoryRules = []struct {
	category string
	terms    []string
}{
	{"bitcoin", []string{"비트코인", "bitcoin", "btc"}},
	{"ethereum", []string{"이더리움", "ethereum", "eth"}},
	{"defi", []string{"defi", "디파이"}},
	{"nft", []string{"nft", "엔에프티"}},
	{"regulation", []string{"규제", "정부", "법"}},
}

// Extract pulls headline-like fragments out of raw markup and shapes them
// into news items. Best-effort by contract: any panic during parsing is
// swallowed and reported as zero items, which the caller treats as an
// extraction failure.
func Extract(markup string, now time.Time) (items []models.NewsItem) {
	defer func() {
		if r := recover(); r != nil {
			items = nil
		}
	}()

	matches := headingPattern.FindAllStringSubmatch(markup, -1)
	for _, m := range matches {
		if len(items) >= maxItems {
			break
		}
		title := validation.SanitizeString(m[1])
		if !plausibleHeadline(title) {
			continue
		}

		n := len(items)
		items = append(items, models.NewsItem{
			ID:          fmt.Sprintf("news-%d", n+1),
			Title:       title,
			Summary:     summarize(title),
			Content:     title + "에 대한 자세한 내용입니다. 암호화폐 시장의 최신 동향과 분석을 제공합니다.",
			Link:        "https://coinness.com",
			PublishedAt: now.Add(-time.Duration(n) * 5 * time.Minute),
			Source:      "Coinness",
			Thumbnail:   nil,
			Category:    categorize(title),
			Importance:  "medium",
		})
	}
	return items
}

// plausibleHeadline keeps candidates within length bounds that mention a
// known market term.
func plausibleHeadline(title string) bool {
	length := len([]rune(title))
	if length <= 10 || length >= 150 {
		return false
	}
	lower := strings.ToLower(title)
	for _, term := range marketTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	return false
}

func summarize(title string) string {
	runes := []rune(title)
	if len(runes) <= 50 {
		return title
	}
	return string(runes[:50]) + "..."
}

func categorize(title string) string {
	lower := strings.ToLower(title)
	for _, rule := range categoryRules {
		for _, term := range rule.terms {
			if strings.Contains(lower, term) {
				return rule.category
			}
		}
	}
	return "crypto"
}
