package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter decides whether a request from key may proceed
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// InMemoryRateLimiter keeps one token bucket per key.
// Suitable for a single instance.
type InMemoryRateLimiter struct {
	rate  rate.Limit
	burst int

	limiters   sync.Map // map[string]*rate.Limiter
	lastAccess sync.Map // map[string]time.Time

	cleanupInterval time.Duration
	maxAge          time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

// NewInMemoryRateLimiter creates a limiter allowing rps requests per second
// per key with bursts up to burst
func NewInMemoryRateLimiter(rps float64, burst int) *InMemoryRateLimiter {
	if burst < 1 {
		burst = 1
	}
	limiter := &InMemoryRateLimiter{
		rate:            rate.Limit(rps),
		burst:           burst,
		cleanupInterval: 5 * time.Minute,
		maxAge:          10 * time.Minute,
		stopCleanup:     make(chan struct{}),
	}

	go limiter.cleanup()

	return limiter
}

// Allow checks if a single request is allowed
func (l *InMemoryRateLimiter) Allow(_ context.Context, key string) bool {
	now := time.Now().UTC()
	l.lastAccess.Store(key, now)
	return l.getLimiter(key).AllowN(now, 1)
}

// getLimiter gets or creates a rate limiter for the given key
func (l *InMemoryRateLimiter) getLimiter(key string) *rate.Limiter {
	if limiter, exists := l.limiters.Load(key); exists {
		return limiter.(*rate.Limiter)
	}

	// may race with another goroutine, the first stored limiter wins
	actual, _ := l.limiters.LoadOrStore(key, rate.NewLimiter(l.rate, l.burst))
	return actual.(*rate.Limiter)
}

// cleanup periodically removes old limiters to prevent memory leaks
func (l *InMemoryRateLimiter) cleanup() {
	ticker := time.NewTicker(l.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanupOldLimiters(time.Now().UTC())
		case <-l.stopCleanup:
			return
		}
	}
}

// cleanupOldLimiters removes limiters not used since now minus maxAge
func (l *InMemoryRateLimiter) cleanupOldLimiters(now time.Time) int {
	cutoff := now.Add(-l.maxAge)
	var keysToDelete []string

	l.lastAccess.Range(func(key, value any) bool {
		if value.(time.Time).Before(cutoff) {
			keysToDelete = append(keysToDelete, key.(string))
		}
		return true
	})

	for _, key := range keysToDelete {
		l.limiters.Delete(key)
		l.lastAccess.Delete(key)
	}
	return len(keysToDelete)
}

// Stop stops the cleanup goroutine
func (l *InMemoryRateLimiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCleanup) })
}
