package store

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/mattn/go-sqlite3"

	"go-delta-analyzer/internal/logger"
)

// RetryConfig defines backoff for writes that hit a locked database
type RetryConfig struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	BackoffMultiplier float64
	Jitter            bool
}

// DefaultRetryConfig applies to every write in this package
var DefaultRetryConfig = RetryConfig{
	MaxAttempts:       4,
	InitialDelay:      25 * time.Millisecond,
	MaxDelay:          500 * time.Millisecond,
	BackoffMultiplier: 2.0,
	Jitter:            true,
}

// withRetry runs fn until it succeeds, fails with a non-retryable error or
// runs out of attempts. The last error is returned.
func withRetry(ctx context.Context, cfg RetryConfig, op string, fn func() error) error {
	attempts := max(cfg.MaxAttempts, 1)

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err = fn(); err == nil || !isRetryableError(err) || attempt == attempts {
			return err
		}

		delay := nextRetryDelay(cfg, attempt)
		logger.Ctx(ctx).Warn("database busy, retrying",
			"operation", op,
			"attempt", attempt,
			"max_attempts", attempts,
			"delay_ms", delay.Milliseconds(),
			"error", err,
		)

		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(delay):
		}
	}
	return err
}

// nextRetryDelay calculates exponential backoff for the given 1-based attempt
func nextRetryDelay(cfg RetryConfig, attempt int) time.Duration {
	delay := time.Duration(float64(cfg.InitialDelay) * math.Pow(cfg.BackoffMultiplier, float64(attempt-1)))
	if delay > cfg.MaxDelay {
		delay = cfg.MaxDelay
	}

	// +/-10%
	if cfg.Jitter {
		delay += time.Duration(float64(delay) * 0.2 * (rand.Float64() - 0.5))
	}
	return delay
}

// isRetryableError reports lock contention, the only transient SQLite failure
func isRetryableError(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}
