package service

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestMemoryRateLimiter(t *testing.T) {
	limiter := NewMemoryRateLimiter(time.Minute, 3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow(ctx, "1.2.3.4"), "request %d should pass", i)
	}
	assert.False(t, limiter.Allow(ctx, "1.2.3.4"))

	// Other keys have their own budget.
	assert.True(t, limiter.Allow(ctx, "5.6.7.8"))
}

func TestMemoryRateLimiterWindowExpiry(t *testing.T) {
	limiter := NewMemoryRateLimiter(10*time.Millisecond, 1)
	ctx := context.Background()

	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
	assert.False(t, limiter.Allow(ctx, "1.2.3.4"))

	time.Sleep(20 * time.Millisecond)
	assert.True(t, limiter.Allow(ctx, "1.2.3.4"))
}

func TestRedisRateLimiterFailsOpen(t *testing.T) {
	// No redis listens here; every command errors and requests pass.
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { client.Close() })

	limiter := NewRedisRateLimiter(client, time.Minute, 1, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow(ctx, "1.2.3.4"), "request %d should pass", i)
	}
}
