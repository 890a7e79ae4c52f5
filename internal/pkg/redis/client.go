// Package redis connects the optional redis instance used by the auth rate
// limiter. The server runs fine without it; callers fall back to the
// in-memory limiter when Connect fails.
package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/sakaleshhubli/books-api/internal/pkg/config"
)

// Connect creates a redis client and verifies the connection with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: "",
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	return client, nil
}
