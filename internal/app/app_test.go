package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/service"
)

func baseConfig() *config.Config {
	return &config.Config{
		Insight: config.InsightConfig{
			DefaultLanguage:    "en",
			SupportedLanguages: []string{"en", "hi"},
			RemoteGeneration:   true,
			RemoteTranslation:  true,
		},
		Cache: config.CacheConfig{Enabled: true, Backend: "memory"},
		LLM:   config.LLMConfig{Provider: "openai"},
	}
}

func fixedClock() time.Time {
	return time.Date(2026, time.October, 18, 8, 0, 0, 0, time.UTC)
}

func TestNew_Minimal(t *testing.T) {
	a, err := New(context.Background(), baseConfig(), Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Archive != nil || a.Publisher != nil {
		t.Error("optional integrations should be off without configuration")
	}
	if a.Insights.RemoteEnabled() {
		t.Error("remote generation needs an API key")
	}

	resp, err := a.Insights.Handle(context.Background(), service.InsightRequest{Name: "Ritika", BirthDate: "1995-08-20"})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Zodiac != string(domain.SignLeo) {
		t.Errorf("zodiac = %s", resp.Zodiac)
	}
}

func TestNew_DatabaseCache(t *testing.T) {
	cfg := baseConfig()
	cfg.Cache.Backend = "database"
	cfg.Database = config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "insights.db"),
		AutoMigrate: true,
	}

	a, err := New(context.Background(), cfg, Options{Clock: fixedClock})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	ctx := context.Background()
	if _, err := a.Insights.ForSign(ctx, domain.SignVirgo, domain.LanguageEnglish, "Stargazer"); err != nil {
		t.Fatalf("ForSign: %v", err)
	}
	stats, err := a.Insights.CacheStats(ctx)
	if err != nil {
		t.Fatalf("CacheStats: %v", err)
	}
	if stats.Backend != "database" || stats.TodayEntries != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestNew_ArchiveNeedsEmbeddingKey(t *testing.T) {
	cfg := baseConfig()
	cfg.Archive.Enabled = true
	cfg.Qdrant.Host = "localhost"

	if _, err := New(context.Background(), cfg, Options{}); err == nil {
		t.Fatal("expected error when archive has no embedding key")
	}
}
