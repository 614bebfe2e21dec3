package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestLimiter_AllowWithinBurst(t *testing.T) {
	l := NewLimiter(60, 2)

	if !l.Allow("embeddings") {
		t.Error("Expected first request to be allowed")
	}
	if !l.Allow("embeddings") {
		t.Error("Expected second request within burst to be allowed")
	}
	if l.Allow("embeddings") {
		t.Error("Expected third immediate request to be throttled")
	}
}

func TestLimiter_OperationsIndependent(t *testing.T) {
	l := NewLimiter(60, 1)

	if !l.Allow("embeddings") {
		t.Fatal("Expected embeddings request to be allowed")
	}
	if !l.Allow("chat") {
		t.Error("Expected chat to have its own budget")
	}
}

func TestLimiter_SetOperationRate(t *testing.T) {
	l := NewLimiter(1, 1)
	l.SetOperationRate("chat", 6000, 5)

	for i := 0; i < 5; i++ {
		if !l.Allow("chat") {
			t.Errorf("Expected custom burst to allow request %d", i+1)
		}
	}
}

func TestLimiter_SetOperationRateNonPositiveFloor(t *testing.T) {
	l := NewLimiter(60, 1)
	l.SetOperationRate("chat", 0, 1)

	// Drain the burst. Without the floor a zero rate never refills and
	// the next Wait blocks until its context expires.
	if !l.Allow("chat") {
		t.Fatal("Expected first request to be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := l.Wait(ctx, "chat"); err != nil {
		t.Errorf("Expected Wait to refill under the floored rate, got %v", err)
	}
}

func TestLimiter_WaitRespectsContext(t *testing.T) {
	l := NewLimiter(1, 1)
	// Drain the single token.
	if !l.Allow("embeddings") {
		t.Fatal("Expected first request to be allowed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "embeddings"); err == nil {
		t.Error("Expected Wait to fail when context expires before a token is available")
	}
}
