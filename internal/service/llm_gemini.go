package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/timmy/astroinsight/internal/domain"
	"google.golang.org/genai"
)

// GeminiConfig holds configuration for the Gemini API.
type GeminiConfig struct {
	Model   string
	APIKey  string
	Timeout time.Duration
	// Temperature overrides the per-call temperature when > 0.
	Temperature float32
}

// GeminiCompleter generates text with Google's Gemini models.
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	timeout     time.Duration
	temperature float32
}

// NewGeminiCompleter creates a Gemini client.
func NewGeminiCompleter(ctx context.Context, cfg *GeminiConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &GeminiCompleter{
		client:      client,
		model:       cfg.Model,
		timeout:     timeout,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the provider name used in logs.
func (c *GeminiCompleter) Name() string {
	return "gemini"
}

// Complete runs a single GenerateContent call.
func (c *GeminiCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperatureFor(req, c.temperature)),
	}
	if req.MaxTokens > 0 {
		genCfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.System != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		return "", domain.NewRemoteServiceError("generate content", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", domain.NewRemoteServiceError("generate content", fmt.Errorf("empty content"))
	}
	return text, nil
}
