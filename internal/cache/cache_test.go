package cache

import (
	"testing"
	"time"
)

func TestEmbeddingKey_ModelNamespacing(t *testing.T) {
	a := EmbeddingKey("text-embedding-3-large", "Patel Nicholas")
	b := EmbeddingKey("text-embedding-3-small", "Patel Nicholas")

	if a == b {
		t.Error("Expected different models to produce different keys")
	}

	if a != EmbeddingKey("text-embedding-3-large", "Patel Nicholas") {
		t.Error("Expected key generation to be deterministic")
	}
}

func TestLayeredCache_PromotesDiskHits(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Hour, dir, time.Hour)

	key := EmbeddingKey("test-model", "some text")
	if err := c.Set(key, []byte("vector"), time.Hour); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A fresh layered cache over the same disk dir sees the entry.
	c2 := NewLayeredCache(time.Hour, dir, time.Hour)
	val, found := c2.Get(key)
	if !found {
		t.Fatal("Expected disk layer to persist entry")
	}
	if string(val) != "vector" {
		t.Errorf("Expected 'vector', got %q", val)
	}

	// Promotion: present in memory now.
	if _, found := c2.memory.Get(key); !found {
		t.Error("Expected disk hit to be promoted to memory")
	}
}

func TestDiskCache_Expiration(t *testing.T) {
	c := NewDiskCache(t.TempDir(), time.Hour)

	key := EmbeddingKey("m", "t")
	if err := c.Set(key, []byte("v"), -time.Second); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if _, found := c.Get(key); found {
		t.Error("Expected expired entry to be treated as a miss")
	}
}
