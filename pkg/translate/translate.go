// Package translate is a best-effort keyword substitution over known market
// terms. It is not a translation service and must not be wired to look like
// one: unknown text passes through untouched.
package translate

import (
	"regexp"
	"strings"
)

// ordered so longer/more specific terms replace before their substrings.
var terms = []struct {
	english string
	korean  string
}{
	{"cryptocurrency", "암호화폐"},
	{"blockchain", "블록체인"},
	{"Bitcoin", "비트코인"},
	{"Ethereum", "이더리움"},
	{"trading", "거래"},
	{"analysis", "분석"},
	{"market", "시장"},
	{"price", "가격"},
	{"DeFi", "디파이"},
}

var patterns = buildPatterns()

func buildPatterns() map[string]*regexp.Regexp {
	m := make(map[string]*regexp.Regexp, len(terms))
	for _, t := range terms {
		m[t.english] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(t.english))
	}
	return m
}

// Translate substitutes known English market terms with their Korean
// equivalents, case-insensitively. Text with no dictionary matches is
// returned unchanged.
func Translate(text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	out := text
	for _, t := range terms {
		out = patterns[t.english].ReplaceAllString(out, t.korean)
	}
	return out
}
