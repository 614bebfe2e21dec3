package ratelimit

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// Limiter caps request rates per API operation (embeddings, chat). The
// upstream model endpoints throttle aggressively, so each operation gets
// its own token bucket configured in requests-per-minute.
type Limiter struct {
	limiters     map[string]*rate.Limiter
	mu           sync.RWMutex
	defaultRate  rate.Limit
	defaultBurst int
}

// NewLimiter creates a limiter with a default requests-per-minute budget.
func NewLimiter(requestsPerMinute int, burst int) *Limiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}

	return &Limiter{
		limiters:     make(map[string]*rate.Limiter),
		defaultRate:  rate.Limit(float64(requestsPerMinute) / 60.0),
		defaultBurst: burst,
	}
}

// Wait blocks until the operation is allowed to proceed or ctx is done.
func (l *Limiter) Wait(ctx context.Context, operation string) error {
	return l.getLimiter(operation).Wait(ctx)
}

// Allow checks if a request is allowed without waiting.
func (l *Limiter) Allow(operation string) bool {
	return l.getLimiter(operation).Allow()
}

// SetOperationRate sets a custom requests-per-minute budget for one operation.
func (l *Limiter) SetOperationRate(operation string, requestsPerMinute int, burst int) {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = l.defaultBurst
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.limiters[operation] = rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), burst)
}

func (l *Limiter) getLimiter(operation string) *rate.Limiter {
	l.mu.RLock()
	limiter, exists := l.limiters[operation]
	l.mu.RUnlock()

	if exists {
		return limiter
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := l.limiters[operation]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(l.defaultRate, l.defaultBurst)
	l.limiters[operation] = limiter

	return limiter
}
