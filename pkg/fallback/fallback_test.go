package fallback

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeList(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "list.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}
	return path
}

func TestLoadMarkets(t *testing.T) {
	path := writeList(t, "KRW-BTC\n비트코인\nBitcoin\nKRW-ETH\n이더리움\nEthereum\n")

	markets, err := LoadMarkets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 2 {
		t.Fatalf("len = %d; want 2", len(markets))
	}
	if markets[0].Market != "KRW-BTC" || markets[0].KoreanName != "비트코인" || markets[0].EnglishName != "Bitcoin" {
		t.Errorf("first record = %+v", markets[0])
	}
	if markets[1].Market != "KRW-ETH" {
		t.Errorf("second record = %+v", markets[1])
	}
}

func TestLoadMarkets_SkipsBlankLines(t *testing.T) {
	path := writeList(t, "\nKRW-BTC\n\n비트코인\nBitcoin\n\n")

	markets, err := LoadMarkets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("len = %d; want 1", len(markets))
	}
}

func TestLoadMarkets_TruncatedRecordIgnored(t *testing.T) {
	path := writeList(t, "KRW-BTC\n비트코인\nBitcoin\nKRW-ETH\n이더리움\n")

	markets, err := LoadMarkets(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(markets) != 1 {
		t.Fatalf("len = %d; want 1 (trailing partial record dropped)", len(markets))
	}
}

func TestLoadMarkets_BadCode(t *testing.T) {
	path := writeList(t, "BTCUSDT\n비트코인\nBitcoin\n")

	if _, err := LoadMarkets(path); err == nil {
		t.Fatal("expected error for malformed market code, got nil")
	}
}

func TestLoadMarkets_MissingFile(t *testing.T) {
	if _, err := LoadMarkets(filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("expected error for missing file, got nil")
	}
}

func TestNews_TimestampsDescend(t *testing.T) {
	now := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	items := News(now)

	if len(items) == 0 {
		t.Fatal("expected canned items")
	}
	if !items[0].PublishedAt.Equal(now) {
		t.Errorf("first PublishedAt = %v; want %v", items[0].PublishedAt, now)
	}
	for i := 1; i < len(items); i++ {
		gap := items[i-1].PublishedAt.Sub(items[i].PublishedAt)
		if gap != 30*time.Minute {
			t.Errorf("gap between item %d and %d = %v; want 30m", i-1, i, gap)
		}
	}
}

func TestNews_ItemFieldsPopulated(t *testing.T) {
	for _, item := range News(time.Now()) {
		if item.ID == "" || item.Title == "" || item.Summary == "" || item.Content == "" {
			t.Errorf("item %q has empty fields", item.ID)
		}
		if item.Source != "Coinness" {
			t.Errorf("item %q source = %q", item.ID, item.Source)
		}
		if item.Category == "" || item.Importance == "" {
			t.Errorf("item %q missing category/importance", item.ID)
		}
	}
}
