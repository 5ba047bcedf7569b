package fx

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/coindex/proxy/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

type fakeFetcher struct {
	rate  float64
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(ctx context.Context) (float64, error) {
	f.calls++
	return f.rate, f.err
}

func TestNewCache_ServesDefaultUntilRefresh(t *testing.T) {
	c := NewCache(&fakeFetcher{}, 5*time.Minute)

	rate, _, fresh := c.Rate()
	if rate != DefaultRate {
		t.Errorf("rate = %v; want default %v", rate, DefaultRate)
	}
	if !fresh {
		t.Error("seeded default should start fresh")
	}
}

func TestRefresh_UpdatesRate(t *testing.T) {
	f := &fakeFetcher{rate: 1399.5}
	c := NewCache(f, 5*time.Minute)

	got, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1399.5 {
		t.Errorf("Refresh = %v; want 1399.5", got)
	}

	rate, _, _ := c.Rate()
	if rate != 1399.5 {
		t.Errorf("Rate after refresh = %v; want 1399.5", rate)
	}
}

func TestRefresh_FailureKeepsLastKnown(t *testing.T) {
	f := &fakeFetcher{rate: 1399.5}
	c := NewCache(f, 5*time.Minute)
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("seed refresh: %v", err)
	}

	f.err = errors.New("upstream down")
	if _, err := c.Refresh(context.Background()); err == nil {
		t.Fatal("expected refresh error, got nil")
	}

	rate, _, _ := c.Rate()
	if rate != 1399.5 {
		t.Errorf("rate after failed refresh = %v; want last-known 1399.5", rate)
	}
}

func TestRate_Staleness(t *testing.T) {
	c := NewCache(&fakeFetcher{rate: 1400}, 5*time.Minute)
	base := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	now := base
	c.SetClock(func() time.Time { return now })
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	now = base.Add(4 * time.Minute)
	if _, _, fresh := c.Rate(); !fresh {
		t.Error("rate should be fresh within TTL")
	}

	now = base.Add(5 * time.Minute)
	if _, _, fresh := c.Rate(); fresh {
		t.Error("rate should be stale after TTL")
	}
}

func TestSnapshot(t *testing.T) {
	c := NewCache(&fakeFetcher{rate: 1400}, 5*time.Minute)
	base := time.Date(2025, 7, 10, 12, 0, 0, 0, time.UTC)
	c.SetClock(func() time.Time { return base })
	if _, err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	s := c.Snapshot()
	if s.Rate != 1400 {
		t.Errorf("Rate = %v; want 1400", s.Rate)
	}
	if s.Timestamp != base.UnixMilli() {
		t.Errorf("Timestamp = %d; want %d", s.Timestamp, base.UnixMilli())
	}
	if s.TTLMillis != (5 * time.Minute).Milliseconds() {
		t.Errorf("TTLMillis = %d; want 300000", s.TTLMillis)
	}
}
