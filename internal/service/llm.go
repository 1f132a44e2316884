package service

import (
	"context"
	"fmt"

	"github.com/timmy/astroinsight/internal/config"
)

// CompletionRequest is one single-turn call to a language model.
type CompletionRequest struct {
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float32
}

// temperatureFor returns override when set, otherwise the request's own value.
func temperatureFor(req CompletionRequest, override float32) float32 {
	if override > 0 {
		return override
	}
	return req.Temperature
}

// Completer produces text for a prompt. Implementations return
// *domain.RemoteServiceError on any transport, status or format failure.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
	Name() string
}

// NewCompleter builds the configured language model client.
// It returns a nil Completer and no error when no API key is configured,
// which leaves every remote path disabled.
func NewCompleter(cfg *config.LLMConfig) (Completer, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, nil
	}

	switch cfg.Provider {
	case "openai", "":
		return NewOpenAICompleter(&OpenAIConfig{
			Model:       cfg.ModelOrDefault(),
			APIKey:      cfg.APIKey,
			BaseURL:     cfg.BaseURL,
			Timeout:     cfg.Timeout,
			Temperature: cfg.Temperature,
		}), nil
	case "gemini":
		gemini, err := NewGeminiCompleter(context.Background(), &GeminiConfig{
			Model:       cfg.ModelOrDefault(),
			APIKey:      cfg.APIKey,
			Timeout:     cfg.Timeout,
			Temperature: cfg.Temperature,
		})
		if err != nil {
			return nil, err
		}
		return gemini, nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
