// Package cache builds the Redis client used for maintenance drafts.
package cache

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/juniu86/rr-guanabara/internal/infrastructure/config"
)

// NewRedisClient creates a client for the configured Redis server.
// The connection is lazy; use Ping to check reachability.
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        cfg.GetRedisAddr(),
		Password:    cfg.RedisPassword,
		DB:          cfg.RedisDB,
		DialTimeout: 3 * time.Second,
	})
}

// Ping reports whether the server answers within timeout.
func Ping(ctx context.Context, client redis.Cmdable, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(ctx).Err()
}
