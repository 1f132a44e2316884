package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/astroinsight/internal/domain"
)

const defaultOpenAIBaseURL = "https://api.openai.com/v1"

// OpenAIConfig holds configuration for an OpenAI-compatible chat completions API.
type OpenAIConfig struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
	// Temperature overrides the per-call temperature when > 0.
	Temperature float32
}

// OpenAICompleter calls /chat/completions on any OpenAI-compatible endpoint.
type OpenAICompleter struct {
	client      *resty.Client
	model       string
	endpoint    string
	temperature float32
}

// NewOpenAICompleter creates a chat completions client.
func NewOpenAICompleter(cfg *OpenAIConfig) *OpenAICompleter {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	client.SetTimeout(timeout)

	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}

	return &OpenAICompleter{
		client:      client,
		model:       cfg.Model,
		endpoint:    baseURL + "/chat/completions",
		temperature: cfg.Temperature,
	}
}

// Name returns the provider name used in logs.
func (c *OpenAICompleter) Name() string {
	return "openai"
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float32       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Complete sends a system + user message pair and returns the trimmed reply.
func (c *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: temperatureFor(req, c.temperature),
	}

	var result chatResponse
	var apiErr apiErrorResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		SetError(&apiErr).
		Post(c.endpoint)
	if err != nil {
		return "", domain.NewRemoteServiceError("chat completion", err)
	}

	if resp.IsError() {
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			return "", domain.NewRemoteServiceError("chat completion",
				fmt.Errorf("status %d: %s", resp.StatusCode(), apiErr.Error.Message))
		}
		return "", domain.NewRemoteServiceError("chat completion",
			fmt.Errorf("status %d", resp.StatusCode()))
	}

	if len(result.Choices) == 0 {
		return "", domain.NewRemoteServiceError("chat completion", fmt.Errorf("no choices in response"))
	}

	content := strings.TrimSpace(result.Choices[0].Message.Content)
	if content == "" {
		return "", domain.NewRemoteServiceError("chat completion", fmt.Errorf("empty content"))
	}
	return content, nil
}
