// Package fallback provides the static datasets substituted when an upstream
// call fails irrecoverably: the bundled KRW market list and a canned set of
// news items. Fallback payloads are shape-identical to live ones.
package fallback

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/coindex/proxy/pkg/models"
)

// LoadMarkets parses the bundled market list at path. The file holds
// three-line records: market code, korean name, english name. Parsed once at
// process start; the result seeds the markets cache so the very first
// response is never empty.
func LoadMarkets(path string) ([]models.MarketDescriptor, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open market list: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read market list: %w", err)
	}

	var markets []models.MarketDescriptor
	for i := 0; i+2 < len(lines); i += 3 {
		m := models.MarketDescriptor{
			Market:      lines[i],
			KoreanName:  lines[i+1],
			EnglishName: lines[i+2],
		}
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("market list record %d: %w", i/3+1, err)
		}
		markets = append(markets, m)
	}
	return markets, nil
}
