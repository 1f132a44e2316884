package service

import (
	"context"
	"strings"
	"time"

	"github.com/timmy/astroinsight/internal/domain"
	"github.com/timmy/astroinsight/internal/logger"
	"github.com/timmy/astroinsight/internal/prompts"
)

const (
	translationMaxTokens   = 200
	translationTemperature = 0.3
)

var signTranslations = map[domain.Language]map[domain.Sign]string{
	domain.LanguageHindi: {
		domain.SignAries:       "मेष",
		domain.SignTaurus:      "वृषभ",
		domain.SignGemini:      "मिथुन",
		domain.SignCancer:      "कर्क",
		domain.SignLeo:         "सिंह",
		domain.SignVirgo:       "कन्या",
		domain.SignLibra:       "तुला",
		domain.SignScorpio:     "वृश्चिक",
		domain.SignSagittarius: "धनु",
		domain.SignCapricorn:   "मकर",
		domain.SignAquarius:    "कुंभ",
		domain.SignPisces:      "मीन",
	},
}

// TranslateSign returns the localized sign name from the static table,
// or the English name when none is known.
func TranslateSign(sign domain.Sign, lang domain.Language) string {
	if name, ok := signTranslations[lang][sign]; ok {
		return name
	}
	return string(sign)
}

// TranslatorService translates English insight text.
type TranslatorService struct {
	completer Completer
	remote    bool
}

// NewTranslatorService creates a translator. Without a completer, or with
// remote disabled, every translation falls back to the source text.
func NewTranslatorService(completer Completer, remote bool) *TranslatorService {
	return &TranslatorService{completer: completer, remote: remote}
}

// Translate returns text in target. English is returned unchanged; on any
// failure the English source text is returned as a fallback.
func (s *TranslatorService) Translate(ctx context.Context, text string, target domain.Language) Outcome {
	if target == domain.LanguageEnglish || strings.TrimSpace(text) == "" {
		return Unchanged(text, target)
	}
	if _, ok := signTranslations[target]; !ok {
		return FallbackUsed(text, domain.LanguageEnglish, "unsupported language "+string(target))
	}
	if !s.remote {
		return FallbackUsed(text, domain.LanguageEnglish, "remote translation disabled")
	}
	if s.completer == nil {
		return FallbackUsed(text, domain.LanguageEnglish, domain.ErrRemoteUnavailable.Error())
	}

	start := time.Now()
	translated, err := s.completer.Complete(ctx, CompletionRequest{
		System:      prompts.TranslationSystemPrompt(target.DisplayName()),
		Prompt:      prompts.TranslationUserPrompt(target.Name(), text),
		MaxTokens:   translationMaxTokens,
		Temperature: translationTemperature,
	})
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldDurationMs: time.Since(start).Milliseconds(),
			logger.FieldLanguage:   string(target),
		}).Warn(ctx, "Translation failed, returning source text: %v", err)
		return FallbackUsed(text, domain.LanguageEnglish, reasonFor(err))
	}
	return Generated(translated, target)
}
