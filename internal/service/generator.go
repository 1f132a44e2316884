package service

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/prompts"
)

const (
	insightMaxTokens   = 150
	insightTemperature = 0.8
)

// GeneratorService produces the daily insight text for a sign.
type GeneratorService struct {
	completer Completer
}

// NewGeneratorService creates a generator. A nil completer disables the remote path.
func NewGeneratorService(completer Completer) *GeneratorService {
	return &GeneratorService{completer: completer}
}

// RemoteAvailable reports whether a language model is configured.
func (s *GeneratorService) RemoteAvailable() bool {
	return s.completer != nil
}

// GenerateRequest is the input of Generate.
type GenerateRequest struct {
	Name      string
	Zodiac    domain.ZodiacInfo
	Language  domain.Language
	Day       time.Time
	UseRemote bool
}

// Generate asks the language model for an insight when UseRemote is set and a model
// is configured, and otherwise, or on any failure, returns the rule-based insight.
// Remote text is written in the requested language; fallback text is English.
func (s *GeneratorService) Generate(ctx context.Context, req GenerateRequest) Outcome {
	fallback := func(reason string) Outcome {
		return FallbackUsed(FallbackInsight(req.Name, req.Zodiac.Sign, req.Day), domain.LanguageEnglish, reason)
	}

	if !req.UseRemote {
		return fallback("remote generation disabled")
	}
	if s.completer == nil {
		return fallback(domain.ErrRemoteUnavailable.Error())
	}

	start := time.Now()
	text, err := s.completer.Complete(ctx, CompletionRequest{
		System: prompts.InsightSystemPrompt,
		Prompt: prompts.InsightUserPrompt(prompts.InsightPromptData{
			Name:     req.Name,
			Sign:     string(req.Zodiac.Sign),
			Element:  string(req.Zodiac.Element),
			Traits:   req.Zodiac.Traits,
			Weekday:  req.Day.Weekday().String(),
			Theme:    prompts.ThemeFor(req.Day.YearDay()),
			Language: req.Language.DisplayName(),
		}),
		MaxTokens:   insightMaxTokens,
		Temperature: insightTemperature,
	})
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
			"provider":             s.completer.Name(),
		}).Warn(ctx, "Insight generation failed, using rule-based insight: %v", err)
		return fallback(reasonFor(err))
	}

	logger.With(logger.Fields{
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
		"provider":             s.completer.Name(),
	}).Debug(ctx, "Insight generated")
	return Generated(text, req.Language)
}

// reasonFor keeps fallback reasons short and free of response bodies.
func reasonFor(err error) string {
	var remote *domain.RemoteServiceError
	if errors.As(err, &remote) {
		return "remote " + remote.Op + " failed"
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "remote call timed out"
	}
	return "remote call failed"
}
