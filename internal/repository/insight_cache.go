package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/domain"
	"gorm.io/gorm"
)

// InsightCache stores one insight per (sign, language, day).
// The day is taken from the cache's clock, so a new day is always a miss.
type InsightCache interface {
	Get(ctx context.Context, sign domain.Sign, lang domain.Language) (string, bool)
	Set(ctx context.Context, sign domain.Sign, lang domain.Language, text string)
	Clear(ctx context.Context) error
	// PruneStale removes entries whose day is not today and returns how many were removed.
	PruneStale(ctx context.Context) (int, error)
	Stats(ctx context.Context) (CacheStats, error)
}

// CacheStats describes the cache contents.
type CacheStats struct {
	Backend      string `json:"backend"`
	Day          string `json:"day"`
	Entries      int    `json:"entries"`
	TodayEntries int    `json:"today_entries"`
}

// Clock returns the current time. The calendar day is taken in the returned time's location.
type Clock func() time.Time

// NewInsightCache builds the configured cache backend.
// db is only required for the database backend.
func NewInsightCache(cfg *config.CacheConfig, db *gorm.DB, clock Clock) (InsightCache, error) {
	if clock == nil {
		clock = time.Now
	}
	if !cfg.Enabled {
		return NopInsightCache{}, nil
	}

	switch cfg.Backend {
	case "memory", "":
		return NewMemoryInsightCache(clock), nil
	case "database":
		if db == nil {
			return nil, fmt.Errorf("database cache backend requires a database")
		}
		return NewDBInsightCache(db, clock), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}

type cacheKey struct {
	sign domain.Sign
	lang domain.Language
}

// MemoryInsightCache keeps only the current day's entries in process memory.
// Writing on a new day drops every earlier day.
type MemoryInsightCache struct {
	mu      sync.RWMutex
	clock   Clock
	day     string
	entries map[cacheKey]string
}

// NewMemoryInsightCache creates an empty in-process cache.
func NewMemoryInsightCache(clock Clock) *MemoryInsightCache {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryInsightCache{
		clock:   clock,
		entries: make(map[cacheKey]string),
	}
}

func (c *MemoryInsightCache) today() string {
	return domain.DayKey(c.clock())
}

// Get returns today's entry for sign and lang.
func (c *MemoryInsightCache) Get(_ context.Context, sign domain.Sign, lang domain.Language) (string, bool) {
	today := c.today()

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.day != today {
		return "", false
	}
	text, ok := c.entries[cacheKey{sign, lang}]
	return text, ok
}

// Set stores text for today, evicting earlier days first.
func (c *MemoryInsightCache) Set(_ context.Context, sign domain.Sign, lang domain.Language, text string) {
	today := c.today()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.day != today {
		c.entries = make(map[cacheKey]string)
		c.day = today
	}
	c.entries[cacheKey{sign, lang}] = text
}

// Clear removes every entry.
func (c *MemoryInsightCache) Clear(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[cacheKey]string)
	c.day = ""
	return nil
}

// PruneStale drops the held entries if they belong to an earlier day.
func (c *MemoryInsightCache) PruneStale(context.Context) (int, error) {
	today := c.today()

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.day == today || c.day == "" {
		return 0, nil
	}
	n := len(c.entries)
	c.entries = make(map[cacheKey]string)
	c.day = ""
	return n, nil
}

// Stats reports the entry counts.
func (c *MemoryInsightCache) Stats(context.Context) (CacheStats, error) {
	today := c.today()

	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{Backend: "memory", Day: today, Entries: len(c.entries)}
	if c.day == today {
		stats.TodayEntries = len(c.entries)
	}
	return stats, nil
}

// NopInsightCache never stores anything. It is used when caching is disabled.
type NopInsightCache struct{}

func (NopInsightCache) Get(context.Context, domain.Sign, domain.Language) (string, bool) {
	return "", false
}

func (NopInsightCache) Set(context.Context, domain.Sign, domain.Language, string) {}

func (NopInsightCache) Clear(context.Context) error { return nil }

func (NopInsightCache) PruneStale(context.Context) (int, error) { return 0, nil }

func (NopInsightCache) Stats(context.Context) (CacheStats, error) {
	return CacheStats{Backend: "disabled"}, nil
}
