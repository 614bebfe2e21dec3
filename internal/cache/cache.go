package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching computed embeddings.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// EmbeddingKey generates a cache key for an embedding of text under the
// given model. Keying on the model keeps vectors from different embedding
// models from colliding.
func EmbeddingKey(modelName, text string) string {
	hash := sha256.Sum256([]byte(modelName + "\x00" + text))
	return "claimforge:v1:" + hex.EncodeToString(hash[:])
}
