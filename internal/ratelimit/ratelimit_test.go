package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryRateLimiter(t *testing.T) {
	ctx := context.Background()
	l := NewInMemoryRateLimiter(0.001, 2)
	defer l.Stop()

	t.Run("allows the burst then blocks", func(t *testing.T) {
		assert.True(t, l.Allow(ctx, "10.0.0.1"))
		assert.True(t, l.Allow(ctx, "10.0.0.1"))
		assert.False(t, l.Allow(ctx, "10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		assert.True(t, l.Allow(ctx, "10.0.0.2"))
	})

	t.Run("cleanup drops idle keys", func(t *testing.T) {
		removed := l.cleanupOldLimiters(time.Now().UTC().Add(time.Hour))

		assert.Equal(t, 2, removed)
		assert.True(t, l.Allow(ctx, "10.0.0.1"))
	})
}

func TestStopIsIdempotent(t *testing.T) {
	l := NewInMemoryRateLimiter(1, 1)

	l.Stop()
	assert.NotPanics(t, l.Stop)
}

func TestMiddleware(t *testing.T) {
	l := NewInMemoryRateLimiter(0.001, 1)
	defer l.Stop()
	h := Middleware(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", nil)
	req.RemoteAddr = "192.168.1.100:12345"

	first := httptest.NewRecorder()
	h.ServeHTTP(first, req)
	second := httptest.NewRecorder()
	h.ServeHTTP(second, req)

	assert.Equal(t, http.StatusNoContent, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Rate limit exceeded")
}

func TestClientKey(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	req.RemoteAddr = "[2001:db8::1]:8080"
	assert.Equal(t, "2001:db8::1", ClientKey(req))

	req.RemoteAddr = "203.0.113.9"
	assert.Equal(t, "203.0.113.9", ClientKey(req))
}
