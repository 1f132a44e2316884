package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/repository"
	"github.com/timmy/astroinsight/internal/service"
)

func today() time.Time {
	return time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
}

type testServer struct {
	router http.Handler
	cache  *repository.MemoryInsightCache
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	cache := repository.NewMemoryInsightCache(today)
	insights := service.NewInsightService(service.InsightConfig{
		DefaultLanguage:    domain.LanguageEnglish,
		SupportedLanguages: []domain.Language{domain.LanguageEnglish, domain.LanguageHindi},
		RemoteGeneration:   true,
		RemoteTranslation:  true,
	},
		service.NewGeneratorService(nil),
		service.NewTranslatorService(nil, true),
		cache,
		service.WithClock(today),
	)

	log := logger.New(&logger.Config{Level: "error", Format: "json", Output: io.Discard})
	router := SetupRouter(&Services{Insights: insights}, &config.ServerConfig{
		Mode: "test",
		CORS: config.CORSConfig{AllowAllOrigins: true},
	}, log)

	return &testServer{router: router, cache: cache}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = bytes.NewBufferString(b)
		default:
			data, err := json.Marshal(b)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	}
	return w, out
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "astrological-insight-generator", body["service"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestInsight_Ritika(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodPost, "/api/insight", map[string]string{
		"name":       "Ritika",
		"birth_date": "1995-08-20",
		"language":   "en",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Leo", body["zodiac"])
	assert.Equal(t, "Fire", body["element"])
	assert.Equal(t, "Sun", body["ruling_planet"])
	assert.Equal(t, "en", body["language"])
	assert.NotEmpty(t, body["insight"])
}

func TestInsight_Hindi(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodPost, "/api/insight", map[string]string{
		"name":        "Ritika",
		"birth_date":  "1995-08-20",
		"birth_time":  "06:30",
		"birth_place": "Jaipur",
		"language":    "hi",
	})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "सिंह", body["zodiac"])
	assert.Equal(t, "hi", body["language"])
}

func TestInsight_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body interface{}
	}{
		{"empty name", map[string]string{"name": "", "birth_date": "1995-08-20"}},
		{"missing name", map[string]string{"birth_date": "1995-08-20"}},
		{"malformed date", map[string]string{"name": "Ritika", "birth_date": "20/08/1995"}},
		{"missing date", map[string]string{"name": "Ritika"}},
		{"bad time", map[string]string{"name": "Ritika", "birth_date": "1995-08-20", "birth_time": "noon"}},
		{"unsupported language", map[string]string{"name": "Ritika", "birth_date": "1995-08-20", "language": "fr"}},
		{"invalid json", `{"name":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t)
			w, body := s.do(t, http.MethodPost, "/api/insight", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.NotEmpty(t, body["error"])

			stats, err := s.cache.Stats(context.Background())
			require.NoError(t, err)
			assert.Zero(t, stats.Entries, "cache must not change on invalid input")
		})
	}
}

func TestZodiac(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodGet, "/api/zodiac?date=2001-01-20&language=en", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Aquarius", body["sign"])
	assert.Equal(t, "Air", body["element"])
	assert.Equal(t, "January 20 - February 18", body["date_range"])

	for _, path := range []string{
		"/api/zodiac",
		"/api/zodiac?date=yesterday",
		"/api/zodiac?date=2001-01-20&language=es",
	} {
		w, _ := s.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}

	w, body = s.do(t, http.MethodGet, "/api/zodiac", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "date query parameter is required", body["error"])
}

func TestSigns(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/api/signs?language=hi", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 12, body["count"])
}

func TestCacheEndpoints(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/insight", map[string]string{"name": "Ritika", "birth_date": "1995-08-20"})

	w, body := s.do(t, http.MethodGet, "/api/cache/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 1, body["entries"])
	assert.Equal(t, "memory", body["backend"])

	w, body = s.do(t, http.MethodPost, "/api/cache/prune", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, body["removed"])

	w, _ = s.do(t, http.MethodDelete, "/api/cache", nil)
	require.Equal(t, http.StatusOK, w.Code)

	_, body = s.do(t, http.MethodGet, "/api/cache/stats", nil)
	assert.EqualValues(t, 0, body["entries"])
}

func TestOptionalFeaturesUnavailable(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(t, http.MethodGet, "/api/archive/search?q=warmth", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, _ = s.do(t, http.MethodPost, "/api/admin/publish", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w, body := s.do(t, http.MethodGet, "/api/admin/publish/status", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, false, body["is_running"])
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodOptions, "/api/insight", nil)
	req.Header.Set("Origin", "https://example.com")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
