package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/repository"
)

func testConfig() InsightConfig {
	return InsightConfig{
		DefaultLanguage:    domain.LanguageEnglish,
		SupportedLanguages: []domain.Language{domain.LanguageEnglish, domain.LanguageHindi},
		RemoteGeneration:   true,
		RemoteTranslation:  true,
	}
}

func newTestInsightService(completer Completer, cfg InsightConfig, opts ...InsightOption) (*InsightService, *repository.MemoryInsightCache) {
	cache := repository.NewMemoryInsightCache(fixedClock)
	opts = append([]InsightOption{WithClock(fixedClock)}, opts...)
	return NewInsightService(cfg,
		NewGeneratorService(completer),
		NewTranslatorService(completer, cfg.RemoteTranslation),
		cache, opts...), cache
}

func ritika(lang string) InsightRequest {
	return InsightRequest{Name: "Ritika", BirthDate: "1995-08-20", Language: lang}
}

func TestHandle_Ritika(t *testing.T) {
	svc, _ := newTestInsightService(nil, testConfig())

	resp, err := svc.Handle(context.Background(), ritika("en"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	want := &domain.InsightResponse{
		Zodiac:       "Leo",
		Insight:      "Ritika, your innate leadership and warmth will shine today. Embrace spontaneity.",
		Language:     domain.LanguageEnglish,
		Element:      domain.ElementFire,
		RulingPlanet: "Sun",
		Traits:       []string{"confident", "generous", "warm-hearted", "creative", "charismatic"},
	}
	if diff := cmp.Diff(want, resp); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_DefaultLanguage(t *testing.T) {
	cfg := testConfig()
	cfg.DefaultLanguage = domain.LanguageHindi
	svc, _ := newTestInsightService(nil, cfg)

	resp, err := svc.Handle(context.Background(), ritika(""))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Language != domain.LanguageHindi || resp.Zodiac != "सिंह" {
		t.Errorf("got language %s zodiac %s", resp.Language, resp.Zodiac)
	}
}

func TestHandle_CacheIdempotence(t *testing.T) {
	completer := &fakeCompleter{reply: "Leo shines today."}
	svc, _ := newTestInsightService(completer, testConfig())
	ctx := context.Background()

	first, err := svc.Handle(ctx, ritika("en"))
	if err != nil {
		t.Fatalf("first Handle: %v", err)
	}
	second, err := svc.Handle(ctx, InsightRequest{Name: "Someone Else", BirthDate: "2001-08-01", Language: "en"})
	if err != nil {
		t.Fatalf("second Handle: %v", err)
	}

	if first.Insight != "Leo shines today." || second.Insight != first.Insight {
		t.Errorf("insights differ: %q vs %q", first.Insight, second.Insight)
	}
	if n := completer.calls.Load(); n != 1 {
		t.Errorf("generator invoked %d times, want 1", n)
	}
}

func TestHandle_InvalidInputLeavesCacheUntouched(t *testing.T) {
	tests := []struct {
		name string
		req  InsightRequest
	}{
		{"empty name", InsightRequest{Name: "", BirthDate: "1995-08-20"}},
		{"malformed date", InsightRequest{Name: "Ritika", BirthDate: "1995/08/20"}},
		{"future date", InsightRequest{Name: "Ritika", BirthDate: "2030-01-01"}},
		{"unsupported language", InsightRequest{Name: "Ritika", BirthDate: "1995-08-20", Language: "fr"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			completer := &fakeCompleter{reply: "x"}
			svc, cache := newTestInsightService(completer, testConfig())

			_, err := svc.Handle(context.Background(), tt.req)
			if !domain.IsValidationError(err) {
				t.Fatalf("expected validation error, got %v", err)
			}

			stats, _ := cache.Stats(context.Background())
			if stats.Entries != 0 {
				t.Errorf("cache has %d entries after invalid input", stats.Entries)
			}
			if completer.calls.Load() != 0 {
				t.Error("generator must not run for invalid input")
			}
		})
	}
}

func TestHandle_FallbackIsTranslatedBeforeCaching(t *testing.T) {
	cfg := testConfig()
	cfg.RemoteGeneration = false
	completer := &fakeCompleter{reply: "अनुवादित"}
	svc, cache := newTestInsightService(completer, cfg)

	resp, err := svc.Handle(context.Background(), ritika("hi"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Insight != "अनुवादित" {
		t.Errorf("insight = %q", resp.Insight)
	}
	if req := completer.lastRequest(); req.MaxTokens != translationMaxTokens {
		t.Errorf("expected only a translation call, got %+v", req)
	}

	cached, ok := cache.Get(context.Background(), domain.SignLeo, domain.LanguageHindi)
	if !ok || cached != "अनुवादित" {
		t.Errorf("cached = %q, %v", cached, ok)
	}
}

func TestHandle_RemoteHindiIsNotTranslatedAgain(t *testing.T) {
	completer := &fakeCompleter{reply: "सिंह राशि के लिए शुभ दिन।"}
	svc, _ := newTestInsightService(completer, testConfig())

	if _, err := svc.Handle(context.Background(), ritika("hi")); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if n := completer.calls.Load(); n != 1 {
		t.Errorf("remote calls = %d, want 1 (generation only)", n)
	}
}

func TestHandle_ConcurrentMissesGenerateOnce(t *testing.T) {
	completer := &fakeCompleter{reply: "together", delay: 50 * time.Millisecond}
	svc, _ := newTestInsightService(completer, testConfig())

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp, err := svc.Handle(context.Background(), ritika("en"))
			if err != nil {
				t.Errorf("Handle: %v", err)
				return
			}
			results[i] = resp.Insight
		}(i)
	}
	wg.Wait()

	if n := completer.calls.Load(); n != 1 {
		t.Errorf("generator invoked %d times, want 1", n)
	}
	for _, r := range results {
		if r != "together" {
			t.Errorf("unexpected insight %q", r)
		}
	}
}

func TestHandle_ArchivesFreshInsights(t *testing.T) {
	store := newFakeVectorStore()
	archive := NewArchiveService(&fakeEmbedder{}, store)
	svc, _ := newTestInsightService(nil, testConfig(), WithArchive(archive))
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Handle(ctx, ritika("en")); err != nil {
			t.Fatalf("Handle: %v", err)
		}
	}

	payload, ok := store.points[PointID(domain.SignLeo, domain.LanguageEnglish, "2026-10-18")]
	if !ok {
		t.Fatalf("expected archived point, have %v", store.points)
	}
	if len(store.points) != 1 || payload.Outcome != string(OutcomeFallback) {
		t.Errorf("unexpected archive state: %d points, payload %+v", len(store.points), payload)
	}
}

func TestHandle_ArchiveFailureIsNotSurfaced(t *testing.T) {
	archive := NewArchiveService(&fakeEmbedder{err: errors.New("embedding down")}, newFakeVectorStore())
	svc, _ := newTestInsightService(nil, testConfig(), WithArchive(archive))

	if _, err := svc.Handle(context.Background(), ritika("en")); err != nil {
		t.Fatalf("archive failure leaked: %v", err)
	}
}

func TestForSign(t *testing.T) {
	svc, _ := newTestInsightService(nil, testConfig())

	resp, err := svc.ForSign(context.Background(), domain.SignPisces, domain.LanguageEnglish, "Stargazer")
	if err != nil {
		t.Fatalf("ForSign: %v", err)
	}
	if resp.Zodiac != "Pisces" || resp.Element != domain.ElementWater {
		t.Errorf("unexpected response %+v", resp)
	}

	if _, err := svc.ForSign(context.Background(), domain.Sign("Ophiuchus"), domain.LanguageEnglish, ""); !domain.IsValidationError(err) {
		t.Errorf("expected validation error for unknown sign, got %v", err)
	}
}

func TestZodiac(t *testing.T) {
	svc, _ := newTestInsightService(nil, testConfig())

	resp, err := svc.Zodiac(context.Background(), "2000-12-22", "hi")
	if err != nil {
		t.Fatalf("Zodiac: %v", err)
	}
	if resp.Sign != "मकर" || resp.DateRange != "December 22 - January 19" {
		t.Errorf("unexpected response %+v", resp)
	}

	for _, bad := range []struct{ date, lang string }{
		{"not-a-date", "en"},
		{"", "en"},
		{"2000-12-22", "de"},
	} {
		if _, err := svc.Zodiac(context.Background(), bad.date, bad.lang); !domain.IsValidationError(err) {
			t.Errorf("Zodiac(%q, %q): expected validation error, got %v", bad.date, bad.lang, err)
		}
	}
}

func TestZodiacDateErrorsNameDateField(t *testing.T) {
	svc, _ := newTestInsightService(nil, testConfig())

	tests := []struct {
		date    string
		message string
	}{
		{"", "date query parameter is required"},
		{"   ", "date query parameter is required"},
		{"20-01-2001", "invalid date format, use YYYY-MM-DD"},
	}
	for _, tt := range tests {
		_, err := svc.Zodiac(context.Background(), tt.date, "en")
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Zodiac(%q): expected validation error, got %v", tt.date, err)
		}
		if ve.Field != "date" || ve.Message != tt.message {
			t.Errorf("Zodiac(%q) = %s/%q, want date/%q", tt.date, ve.Field, ve.Message, tt.message)
		}
	}
}

func TestSigns(t *testing.T) {
	svc, _ := newTestInsightService(nil, testConfig())

	signs, err := svc.Signs(context.Background(), "en")
	if err != nil {
		t.Fatalf("Signs: %v", err)
	}
	if len(signs) != 12 || signs[0].Sign != "Aries" {
		t.Errorf("unexpected signs %+v", signs)
	}
}
