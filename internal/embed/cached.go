package embed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/claimforge/claimforge/internal/cache"
)

// CachedEmbedder wraps an Embedder with a cache so the same text is never
// embedded twice. Rebuilding the index or repeating a lookup becomes free.
type CachedEmbedder struct {
	inner Embedder
	cache cache.Cache
}

// NewCachedEmbedder creates a caching wrapper around inner.
func NewCachedEmbedder(inner Embedder, c cache.Cache) *CachedEmbedder {
	return &CachedEmbedder{inner: inner, cache: c}
}

// ModelName returns the wrapped embedder's model identity.
func (e *CachedEmbedder) ModelName() string {
	return e.inner.ModelName()
}

// Embed returns a cached embedding when available, computing and storing
// it otherwise.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	key := cache.EmbeddingKey(e.inner.ModelName(), text)

	if data, found := e.cache.Get(key); found {
		var vec []float32
		if err := json.Unmarshal(data, &vec); err == nil {
			return vec, nil
		}
		// Corrupt entry: drop it and re-embed.
		_ = e.cache.Delete(key)
	}

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(vec)
	if err != nil {
		return nil, fmt.Errorf("marshal embedding: %w", err)
	}
	_ = e.cache.Set(key, data, 0)

	return vec, nil
}
