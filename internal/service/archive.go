package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/repository"
)

const (
	archiveTimeout     = 10 * time.Second
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// pointNamespace scopes archive point IDs.
var pointNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("astroinsight/archive"))

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// VectorStore persists and searches archived insight vectors.
type VectorStore interface {
	Upsert(ctx context.Context, pointID string, vector []float32, payload *repository.InsightPayload) error
	Search(ctx context.Context, vector []float32, limit int, filters *repository.VectorSearchFilters) ([]repository.VectorSearchResult, error)
	DeleteDay(ctx context.Context, day string) error
}

// InsightArchiver records freshly generated insights.
type InsightArchiver interface {
	Record(ctx context.Context, entry ArchiveEntry) error
}

// ArchiveEntry is one generated insight to archive.
type ArchiveEntry struct {
	Sign     domain.Sign
	Language domain.Language
	Day      string
	Insight  string
	Outcome  OutcomeKind
}

// ArchiveHit is one similarity search result.
type ArchiveHit struct {
	Score    float32 `json:"score"`
	Sign     string  `json:"sign"`
	Language string  `json:"language"`
	Day      string  `json:"day"`
	Insight  string  `json:"insight"`
	Outcome  string  `json:"outcome"`
}

// ArchiveQuery is the input of Search.
type ArchiveQuery struct {
	Text     string
	Sign     string
	Language string
	Day      string
	Limit    int
}

// ArchiveService embeds insights and stores them in the vector archive.
type ArchiveService struct {
	embedder Embedder
	store    VectorStore
}

// NewArchiveService creates an archive over embedder and store.
func NewArchiveService(embedder Embedder, store VectorStore) *ArchiveService {
	return &ArchiveService{embedder: embedder, store: store}
}

// PointID derives the archive point ID for one cache key, so regenerating
// the same sign, language and day replaces the earlier point.
func PointID(sign domain.Sign, lang domain.Language, day string) string {
	return uuid.NewSHA1(pointNamespace, []byte(string(sign)+"|"+string(lang)+"|"+day)).String()
}

// Record embeds and upserts entry. It runs detached from the caller's
// cancellation with its own timeout.
func (s *ArchiveService) Record(ctx context.Context, entry ArchiveEntry) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	vector, err := s.embedder.Embed(ctx, entry.Insight)
	if err != nil {
		return fmt.Errorf("embed insight: %w", err)
	}

	payload := &repository.InsightPayload{
		Sign:     string(entry.Sign),
		Language: string(entry.Language),
		Day:      entry.Day,
		Insight:  entry.Insight,
		Outcome:  string(entry.Outcome),
	}
	if err := s.store.Upsert(ctx, PointID(entry.Sign, entry.Language, entry.Day), vector, payload); err != nil {
		return fmt.Errorf("store insight: %w", err)
	}

	logger.CtxDebug(ctx, "Insight archived")
	return nil
}

// Search finds archived insights similar to q.Text.
func (s *ArchiveService) Search(ctx context.Context, q ArchiveQuery) ([]ArchiveHit, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, domain.NewValidationError("q", "query text is required")
	}
	var sign string
	if q.Sign != "" {
		parsed, ok := domain.ParseSign(q.Sign)
		if !ok {
			return nil, domain.NewValidationError("sign", "unknown zodiac sign: "+q.Sign)
		}
		sign = string(parsed)
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.Search(ctx, vector, limit, &repository.VectorSearchFilters{
		Sign:     sign,
		Language: string(domain.ParseLanguage(q.Language)),
		Day:      q.Day,
	})
	if err != nil {
		return nil, err
	}

	hits := make([]ArchiveHit, 0, len(results))
	for _, r := range results {
		if r.Payload == nil {
			continue
		}
		hits = append(hits, ArchiveHit{
			Score:    r.Score,
			Sign:     r.Payload.Sign,
			Language: r.Payload.Language,
			Day:      r.Payload.Day,
			Insight:  r.Payload.Insight,
			Outcome:  r.Payload.Outcome,
		})
	}
	return hits, nil
}

// Forget removes every archived insight of day (YYYY-MM-DD).
func (s *ArchiveService) Forget(ctx context.Context, day string) error {
	day = strings.TrimSpace(day)
	if day == "" {
		return domain.NewValidationError("day", "day is required")
	}
	if _, err := time.Parse(domain.DayLayout, day); err != nil {
		return domain.NewValidationError("day", "invalid day format, use YYYY-MM-DD")
	}
	if err := s.store.DeleteDay(ctx, day); err != nil {
		return err
	}
	logger.With(logger.Fields{"day": day}).Info(ctx, "Archive day removed")
	return nil
}
