package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RateLimiter bounds per-IP request rates on the login and register
// endpoints.
type RateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// MemoryRateLimiter is a sliding-window per-key limiter held entirely in
// process memory. It is the fallback when redis is not configured.
type MemoryRateLimiter struct {
	requests map[string][]time.Time
	mu       sync.Mutex
	window   time.Duration
	maxReqs  int
}

// NewMemoryRateLimiter creates a limiter allowing maxReqs requests per key
// within window.
func NewMemoryRateLimiter(window time.Duration, maxReqs int) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		requests: make(map[string][]time.Time),
		window:   window,
		maxReqs:  maxReqs,
	}
}

// Allow reports whether the key is within its rate limit and records the
// request when it is.
func (r *MemoryRateLimiter) Allow(_ context.Context, key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()

	if reqs, exists := r.requests[key]; exists {
		var valid []time.Time
		for _, t := range reqs {
			if now.Sub(t) < r.window {
				valid = append(valid, t)
			}
		}
		r.requests[key] = valid
	}

	if len(r.requests[key]) >= r.maxReqs {
		return false
	}

	r.requests[key] = append(r.requests[key], now)
	return true
}

// RedisRateLimiter is a fixed-window per-key limiter backed by redis, so the
// limit holds across restarts and replicas. Redis errors fail open: a broken
// limiter must not take authentication down with it.
type RedisRateLimiter struct {
	client  *redis.Client
	window  time.Duration
	maxReqs int
	logger  *zap.Logger
}

// NewRedisRateLimiter creates a redis-backed limiter.
func NewRedisRateLimiter(client *redis.Client, window time.Duration, maxReqs int, logger *zap.Logger) *RedisRateLimiter {
	return &RedisRateLimiter{
		client:  client,
		window:  window,
		maxReqs: maxReqs,
		logger:  logger.Named("ratelimit"),
	}
}

// Allow increments the key's window counter and checks it against the limit.
func (r *RedisRateLimiter) Allow(ctx context.Context, key string) bool {
	redisKey := fmt.Sprintf("ratelimit:auth:%s", key)

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		r.logger.Warn("redis rate limit check failed, allowing request", zap.Error(err))
		return true
	}
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			// Without an expiry the counter would limit this key forever.
			// Drop the key and let the request through.
			r.logger.Warn("failed to set rate limit window expiry, allowing request", zap.Error(err))
			r.client.Del(ctx, redisKey)
			return true
		}
	}

	return count <= int64(r.maxReqs)
}
