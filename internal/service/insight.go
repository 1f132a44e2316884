package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/astroinsight/internal/config"
	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/repository"
	"golang.org/x/sync/singleflight"
)

// InsightConfig gates the remote paths and the accepted languages.
type InsightConfig struct {
	DefaultLanguage    domain.Language
	SupportedLanguages []domain.Language
	RemoteGeneration   bool
	RemoteTranslation  bool
}

// InsightConfigFrom converts the file/env configuration.
func InsightConfigFrom(cfg *config.InsightConfig) InsightConfig {
	langs := make([]domain.Language, 0, len(cfg.SupportedLanguages))
	for _, l := range cfg.SupportedLanguages {
		langs = append(langs, domain.ParseLanguage(l))
	}
	return InsightConfig{
		DefaultLanguage:    domain.ParseLanguage(cfg.DefaultLanguage),
		SupportedLanguages: langs,
		RemoteGeneration:   cfg.RemoteGeneration,
		RemoteTranslation:  cfg.RemoteTranslation,
	}
}

// InsightRequest is the raw input of one insight request.
type InsightRequest struct {
	Name       string `json:"name"`
	BirthDate  string `json:"birth_date"`
	BirthTime  string `json:"birth_time,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Language   string `json:"language,omitempty"`
}

// InsightService resolves a birth date to a sign and returns the day's insight,
// generating, translating and caching it on a miss.
type InsightService struct {
	cfg        InsightConfig
	generator  *GeneratorService
	translator *TranslatorService
	cache      repository.InsightCache
	archive    InsightArchiver
	clock      func() time.Time
	group      singleflight.Group
}

// InsightOption customizes an InsightService.
type InsightOption func(*InsightService)

// WithClock overrides the source of the current day. The cache should share it.
func WithClock(clock func() time.Time) InsightOption {
	return func(s *InsightService) {
		s.clock = clock
	}
}

// WithArchive records every freshly generated insight in the vector archive.
func WithArchive(archive InsightArchiver) InsightOption {
	return func(s *InsightService) {
		s.archive = archive
	}
}

// NewInsightService wires the pipeline.
// Parameters:
//   - cfg: language and remote-path gates.
//   - generator: insight generator.
//   - translator: free-text translator.
//   - cache: per-day insight cache; use repository.NopInsightCache to disable.
//   - opts: optional clock and archive.
//
// Returns:
//   - *InsightService: ready pipeline.
func NewInsightService(cfg InsightConfig, generator *GeneratorService, translator *TranslatorService, cache repository.InsightCache, opts ...InsightOption) *InsightService {
	if cache == nil {
		cache = repository.NopInsightCache{}
	}
	s := &InsightService{
		cfg:        cfg,
		generator:  generator,
		translator: translator,
		cache:      cache,
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RemoteEnabled reports whether insights can come from the language model.
func (s *InsightService) RemoteEnabled() bool {
	return s.cfg.RemoteGeneration && s.generator.RemoteAvailable()
}

// Today returns the calendar day used for cache keys.
func (s *InsightService) Today() string {
	return domain.DayKey(s.clock())
}

// SupportedLanguages lists the accepted language codes.
func (s *InsightService) SupportedLanguages() []domain.Language {
	return append([]domain.Language(nil), s.cfg.SupportedLanguages...)
}

// ResolveLanguage maps an empty code to the default and rejects unsupported codes.
func (s *InsightService) ResolveLanguage(raw string) (domain.Language, error) {
	lang := domain.ParseLanguage(raw)
	if lang == "" {
		return s.cfg.DefaultLanguage, nil
	}
	for _, supported := range s.cfg.SupportedLanguages {
		if lang == supported {
			return lang, nil
		}
	}

	codes := make([]string, len(s.cfg.SupportedLanguages))
	for i, l := range s.cfg.SupportedLanguages {
		codes[i] = string(l)
	}
	return "", domain.NewValidationError("language",
		fmt.Sprintf("unsupported language %q, supported: %s", raw, strings.Join(codes, ", ")))
}

// Handle validates req and returns the insight for the resolved sign.
// Only validation fails; remote problems degrade to rule-based text.
func (s *InsightService) Handle(ctx context.Context, req InsightRequest) (*domain.InsightResponse, error) {
	details, err := domain.NewBirthDetails(req.Name, req.BirthDate, req.BirthTime, req.BirthPlace, s.clock())
	if err != nil {
		return nil, err
	}
	lang, err := s.ResolveLanguage(req.Language)
	if err != nil {
		return nil, err
	}

	return s.resolve(ctx, details.Name, domain.ResolveZodiac(details.BirthDate), lang), nil
}

// ForSign returns the day's insight for a known sign, addressed to name.
func (s *InsightService) ForSign(ctx context.Context, sign domain.Sign, lang domain.Language, name string) (*domain.InsightResponse, error) {
	info, ok := domain.LookupZodiac(sign)
	if !ok {
		return nil, domain.NewValidationError("sign", "unknown zodiac sign: "+string(sign))
	}
	lang, err := s.ResolveLanguage(string(lang))
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, strings.TrimSpace(name), info, lang), nil
}

func (s *InsightService) resolve(ctx context.Context, name string, zodiac domain.ZodiacInfo, lang domain.Language) *domain.InsightResponse {
	now := s.clock()
	day := domain.DayKey(now)

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldSign:     string(zodiac.Sign),
		logger.FieldLanguage: string(lang),
		logger.FieldDay:      day,
	})

	key := string(zodiac.Sign) + ":" + string(lang) + ":" + day
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		if text, ok := s.cache.Get(ctx, zodiac.Sign, lang); ok {
			logger.With(nil).WithOutcome("cached").Debug(ctx, "Insight served from cache")
			return text, nil
		}

		outcome := s.produce(ctx, name, zodiac, lang, now)

		s.cache.Set(ctx, zodiac.Sign, lang, outcome.Text)

		if s.archive != nil {
			err := s.archive.Record(ctx, ArchiveEntry{
				Sign:     zodiac.Sign,
				Language: lang,
				Day:      day,
				Insight:  outcome.Text,
				Outcome:  outcome.Kind,
			})
			if err != nil {
				logger.FromContext(ctx).WithError(err).Warn("Failed to archive insight")
			}
		}
		return outcome.Text, nil
	})

	return insightResponse(zodiac, lang, v.(string))
}

func insightResponse(zodiac domain.ZodiacInfo, lang domain.Language, text string) *domain.InsightResponse {
	return &domain.InsightResponse{
		Zodiac:       TranslateSign(zodiac.Sign, lang),
		Insight:      text,
		Language:     lang,
		Element:      zodiac.Element,
		RulingPlanet: zodiac.RulingPlanet,
		Traits:       append([]string(nil), zodiac.Traits...),
	}
}

// produce generates the insight and translates it when the generator
// fell back to English.
func (s *InsightService) produce(ctx context.Context, name string, zodiac domain.ZodiacInfo, lang domain.Language, now time.Time) Outcome {
	start := time.Now()
	outcome := s.generator.Generate(ctx, GenerateRequest{
		Name:      name,
		Zodiac:    zodiac,
		Language:  lang,
		Day:       now,
		UseRemote: s.cfg.RemoteGeneration,
	})
	if outcome.Language != lang {
		translated := s.translator.Translate(ctx, outcome.Text, lang)
		outcome.Text = translated.Text
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"reason":               outcome.Reason,
	}).WithOutcome(string(outcome.Kind)).Info(ctx, "Insight resolved")
	return outcome
}

// Compose returns the day's insight for sign addressed to name without
// touching the per-sign cache or the archive. Cached text carries the name of
// whoever asked first, so documents addressed to someone else use this.
func (s *InsightService) Compose(ctx context.Context, sign domain.Sign, lang domain.Language, name string) (*domain.InsightResponse, error) {
	info, ok := domain.LookupZodiac(sign)
	if !ok {
		return nil, domain.NewValidationError("sign", "unknown zodiac sign: "+string(sign))
	}
	lang, err := s.ResolveLanguage(string(lang))
	if err != nil {
		return nil, err
	}

	now := s.clock()
	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldSign:     string(info.Sign),
		logger.FieldLanguage: string(lang),
		logger.FieldDay:      domain.DayKey(now),
	})
	outcome := s.produce(ctx, strings.TrimSpace(name), info, lang, now)
	return insightResponse(info, lang, outcome.Text), nil
}

// Zodiac resolves a birth date to its sign attributes.
func (s *InsightService) Zodiac(ctx context.Context, date, language string) (*domain.ZodiacResponse, error) {
	lang, err := s.ResolveLanguage(language)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(date) == "" {
		return nil, domain.NewValidationError("date", "date query parameter is required")
	}
	birthDate, err := domain.ParseBirthDate(date, s.clock())
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return nil, domain.NewValidationError("date", ve.Message)
		}
		return nil, err
	}

	info := domain.ResolveZodiac(birthDate)
	logger.CtxDebug(ctx, "Resolved %s to %s", date, info.Sign)
	resp := zodiacResponse(info, lang)
	return &resp, nil
}

// Signs lists every sign in calendar order.
func (s *InsightService) Signs(_ context.Context, language string) ([]domain.ZodiacResponse, error) {
	lang, err := s.ResolveLanguage(language)
	if err != nil {
		return nil, err
	}

	all := domain.AllZodiac()
	out := make([]domain.ZodiacResponse, len(all))
	for i, info := range all {
		out[i] = zodiacResponse(info, lang)
	}
	return out, nil
}

func zodiacResponse(info domain.ZodiacInfo, lang domain.Language) domain.ZodiacResponse {
	return domain.ZodiacResponse{
		Sign:         TranslateSign(info.Sign, lang),
		Element:      info.Element,
		RulingPlanet: info.RulingPlanet,
		Traits:       info.Traits,
		DateRange:    info.DateRange,
		Language:     lang,
	}
}

// CacheStats reports the cache contents.
func (s *InsightService) CacheStats(ctx context.Context) (repository.CacheStats, error) {
	return s.cache.Stats(ctx)
}

// ClearCache drops every cached insight.
func (s *InsightService) ClearCache(ctx context.Context) error {
	return s.cache.Clear(ctx)
}

// PruneCache drops cached insights of earlier days.
func (s *InsightService) PruneCache(ctx context.Context) (int, error) {
	return s.cache.PruneStale(ctx)
}
