package repository

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/domain"
	"gorm.io/gorm"
)

// fakeClock is a settable clock shared by a test and the cache under test.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(y int, m time.Month, d int) *fakeClock {
	return &fakeClock{now: time.Date(y, m, d, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func exerciseCache(t *testing.T, cache InsightCache, clock *fakeClock) {
	t.Helper()
	ctx := context.Background()

	if _, ok := cache.Get(ctx, domain.SignLeo, domain.LanguageEnglish); ok {
		t.Fatal("expected miss on empty cache")
	}

	cache.Set(ctx, domain.SignLeo, domain.LanguageEnglish, "first")
	cache.Set(ctx, domain.SignLeo, domain.LanguageHindi, "पहला")

	got, ok := cache.Get(ctx, domain.SignLeo, domain.LanguageEnglish)
	if !ok || got != "first" {
		t.Fatalf("Get = %q, %v; want first, true", got, ok)
	}
	if got, _ := cache.Get(ctx, domain.SignLeo, domain.LanguageHindi); got != "पहला" {
		t.Errorf("languages must not share entries, got %q", got)
	}

	cache.Set(ctx, domain.SignLeo, domain.LanguageEnglish, "second")
	if got, _ := cache.Get(ctx, domain.SignLeo, domain.LanguageEnglish); got != "second" {
		t.Errorf("Set should overwrite, got %q", got)
	}

	stats, err := cache.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.TodayEntries != 2 {
		t.Errorf("TodayEntries = %d, want 2", stats.TodayEntries)
	}

	clock.Advance(24 * time.Hour)
	if _, ok := cache.Get(ctx, domain.SignLeo, domain.LanguageEnglish); ok {
		t.Error("expected miss on the next day")
	}

	if err := cache.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	stats, _ = cache.Stats(ctx)
	if stats.Entries != 0 {
		t.Errorf("Entries after Clear = %d, want 0", stats.Entries)
	}
}

func TestMemoryInsightCache(t *testing.T) {
	clock := newFakeClock(2026, time.October, 18)
	exerciseCache(t, NewMemoryInsightCache(clock.Now), clock)
}

func TestMemoryInsightCache_DayRolloverEvicts(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(2026, time.October, 18)
	cache := NewMemoryInsightCache(clock.Now)

	for _, sign := range []domain.Sign{domain.SignAries, domain.SignLeo, domain.SignPisces} {
		cache.Set(ctx, sign, domain.LanguageEnglish, "yesterday")
	}

	clock.Advance(24 * time.Hour)
	cache.Set(ctx, domain.SignLeo, domain.LanguageEnglish, "today")

	stats, _ := cache.Stats(ctx)
	if stats.Entries != 1 {
		t.Errorf("Entries = %d, want 1 after rollover", stats.Entries)
	}
}

func TestMemoryInsightCache_PruneStale(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(2026, time.October, 18)
	cache := NewMemoryInsightCache(clock.Now)

	cache.Set(ctx, domain.SignAries, domain.LanguageEnglish, "a")
	cache.Set(ctx, domain.SignTaurus, domain.LanguageEnglish, "b")

	if n, _ := cache.PruneStale(ctx); n != 0 {
		t.Errorf("pruned %d entries of today, want 0", n)
	}

	clock.Advance(24 * time.Hour)
	if n, _ := cache.PruneStale(ctx); n != 2 {
		t.Errorf("pruned %d, want 2", n)
	}
}

func TestNopInsightCache(t *testing.T) {
	ctx := context.Background()
	cache := NopInsightCache{}
	cache.Set(ctx, domain.SignLeo, domain.LanguageEnglish, "x")
	if _, ok := cache.Get(ctx, domain.SignLeo, domain.LanguageEnglish); ok {
		t.Error("nop cache must never hit")
	}
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := InitDB(context.Background(), &config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "insights.db"),
		AutoMigrate: true,
	})
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	t.Cleanup(func() { _ = CloseDB(db) })
	return db
}

func TestDBInsightCache(t *testing.T) {
	clock := newFakeClock(2026, time.October, 18)
	exerciseCache(t, NewDBInsightCache(openTestDB(t), clock.Now), clock)
}

func TestDBInsightCache_PruneStale(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(2026, time.October, 18)
	cache := NewDBInsightCache(openTestDB(t), clock.Now)
	cache.Set(ctx, domain.SignAries, domain.LanguageEnglish, "old")
	cache.Set(ctx, domain.SignTaurus, domain.LanguageHindi, "old")

	clock.Advance(24 * time.Hour)
	cache.Set(ctx, domain.SignAries, domain.LanguageEnglish, "new")

	n, err := cache.PruneStale(ctx)
	if err != nil {
		t.Fatalf("PruneStale: %v", err)
	}
	if n != 2 {
		t.Errorf("pruned %d rows, want 2", n)
	}

	stats, _ := cache.Stats(ctx)
	if stats.Entries != 1 || stats.TodayEntries != 1 {
		t.Errorf("stats = %+v, want 1 entry for today", stats)
	}
}

func TestNewInsightCache(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.CacheConfig
		want    string
		wantErr bool
	}{
		{name: "disabled", cfg: config.CacheConfig{Enabled: false, Backend: "memory"}, want: "disabled"},
		{name: "memory", cfg: config.CacheConfig{Enabled: true, Backend: "memory"}, want: "memory"},
		{name: "database without db", cfg: config.CacheConfig{Enabled: true, Backend: "database"}, wantErr: true},
		{name: "unknown", cfg: config.CacheConfig{Enabled: true, Backend: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache, err := NewInsightCache(&tt.cfg, nil, nil)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			stats, _ := cache.Stats(context.Background())
			if stats.Backend != tt.want {
				t.Errorf("backend = %q, want %q", stats.Backend, tt.want)
			}
		})
	}
}
