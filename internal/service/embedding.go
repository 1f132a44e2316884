package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/timmy/astroinsight/internal/domain"
)

// EmbeddingService turns text into vectors through an OpenAI-compatible /embeddings API.
type EmbeddingService struct {
	client     *resty.Client
	model      string
	endpoint   string
	dimensions int
}

// EmbeddingConfig holds configuration for the embedding service.
type EmbeddingConfig struct {
	Model      string
	APIKey     string
	BaseURL    string
	Dimensions int
	Timeout    time.Duration
}

// NewEmbeddingService creates a new embedding service.
func NewEmbeddingService(cfg *EmbeddingConfig) *EmbeddingService {
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

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		endpoint:   baseURL + "/embeddings",
		dimensions: cfg.Dimensions,
	}
}

// Dimensions returns the configured vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

type embeddingRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions int      `json:"dimensions,omitempty"`
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
}

// Embed generates an embedding for a single text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	var result embeddingResponse
	var apiErr apiErrorResponse
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(embeddingRequest{Model: s.model, Input: texts, Dimensions: s.dimensions}).
		SetResult(&result).
		SetError(&apiErr).
		Post(s.endpoint)
	if err != nil {
		return nil, domain.NewRemoteServiceError("embedding", err)
	}

	if resp.IsError() {
		if apiErr.Error != nil && apiErr.Error.Message != "" {
			return nil, domain.NewRemoteServiceError("embedding",
				fmt.Errorf("status %d: %s", resp.StatusCode(), apiErr.Error.Message))
		}
		return nil, domain.NewRemoteServiceError("embedding", fmt.Errorf("status %d", resp.StatusCode()))
	}

	if len(result.Data) != len(texts) {
		return nil, domain.NewRemoteServiceError("embedding",
			fmt.Errorf("unexpected number of embeddings: got %d, expected %d", len(result.Data), len(texts)))
	}

	embeddings := make([][]float32, len(texts))
	for _, item := range result.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, domain.NewRemoteServiceError("embedding", fmt.Errorf("embedding index %d out of range", item.Index))
		}
		embeddings[item.Index] = item.Embedding
	}
	return embeddings, nil
}
