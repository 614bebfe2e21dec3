package embed

import (
	"context"
	"fmt"
	"time"

	"github.com/claimforge/claimforge/internal/llm"
	"github.com/claimforge/claimforge/internal/model"
	"github.com/claimforge/claimforge/internal/ratelimit"
	"github.com/sashabaranov/go-openai"
)

// Operation name used for rate limiting embedding calls.
const Operation = "embeddings"

// Embedder computes a vector representation of text.
type Embedder interface {
	// Embed returns the embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// ModelName returns the embedding model identity. Vector spaces from
	// different models are incompatible, so callers namespace on this.
	ModelName() string
}

// OpenAIEmbedder implements Embedder using the OpenAI embeddings API.
type OpenAIEmbedder struct {
	client  *openai.Client
	config  model.EmbeddingConfig
	limiter *ratelimit.Limiter
}

// NewOpenAIEmbedder creates a new OpenAI embedder. A missing API key is a
// configuration error here, at construction, not at query time.
func NewOpenAIEmbedder(cfg model.EmbeddingConfig, limiter *ratelimit.Limiter) (*OpenAIEmbedder, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model name is required")
	}

	client, err := llm.NewClient(cfg.APIKey, cfg.BaseURL)
	if err != nil {
		return nil, err
	}

	return &OpenAIEmbedder{
		client:  client,
		config:  cfg,
		limiter: limiter,
	}, nil
}

// ModelName returns the configured embedding model.
func (e *OpenAIEmbedder) ModelName() string {
	return e.config.Model
}

// Embed computes the embedding for text. The API call is bounded by the
// configured timeout and rate-limited; a hung endpoint surfaces as a
// retryable error instead of blocking the run.
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, Operation); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	timeout := e.config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctxWithTimeout, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := e.client.CreateEmbeddings(ctxWithTimeout, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(e.config.Model),
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI embeddings API error: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned for text")
	}

	return resp.Data[0].Embedding, nil
}
