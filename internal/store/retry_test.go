package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
)

var fastRetry = RetryConfig{
	MaxAttempts:       3,
	InitialDelay:      time.Millisecond,
	MaxDelay:          2 * time.Millisecond,
	BackoffMultiplier: 2,
}

func TestWithRetry(t *testing.T) {
	busy := sqlite3.Error{Code: sqlite3.ErrBusy}

	t.Run("retries busy until success", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), fastRetry, "test", func() error {
			calls++
			if calls < 3 {
				return busy
			}
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		err := withRetry(context.Background(), fastRetry, "test", func() error {
			calls++
			return busy
		})
		assert.True(t, isRetryableError(err))
		assert.Equal(t, 3, calls)
	})

	t.Run("does not retry other errors", func(t *testing.T) {
		calls := 0
		boom := errors.New("constraint failed")
		err := withRetry(context.Background(), fastRetry, "test", func() error {
			calls++
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 1, calls)
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		slow := fastRetry
		slow.InitialDelay = time.Hour
		slow.MaxDelay = time.Hour

		err := withRetry(ctx, slow, "test", func() error { return busy })
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestNextRetryDelay(t *testing.T) {
	cfg := RetryConfig{InitialDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond, BackoffMultiplier: 2}

	assert.Equal(t, 10*time.Millisecond, nextRetryDelay(cfg, 1))
	assert.Equal(t, 20*time.Millisecond, nextRetryDelay(cfg, 2))
	assert.Equal(t, 40*time.Millisecond, nextRetryDelay(cfg, 3))
	assert.Equal(t, 50*time.Millisecond, nextRetryDelay(cfg, 4))

	cfg.Jitter = true
	for range 20 {
		d := nextRetryDelay(cfg, 2)
		assert.InDelta(t, float64(20*time.Millisecond), float64(d), float64(2*time.Millisecond))
	}
}

func TestIsRetryableError(t *testing.T) {
	assert.True(t, isRetryableError(sqlite3.Error{Code: sqlite3.ErrLocked}))
	assert.False(t, isRetryableError(sqlite3.Error{Code: sqlite3.ErrConstraint}))
	assert.False(t, isRetryableError(errors.New("busy")))
}
