package ratelimit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore is a rate limiter store for echo's RateLimiter middleware backed
// by Redis, so the request budget is shared across replicas. Each identifier
// gets a counter that expires after the window.
type RedisStore struct {
	client *redis.Client
	limit  int64
	window time.Duration
}

// NewRedisStore creates a store allowing limit requests per window per identifier.
func NewRedisStore(client *redis.Client, limit int64, window time.Duration) *RedisStore {
	return &RedisStore{client: client, limit: limit, window: window}
}

// Allow implements echo's middleware.RateLimiterStore.
func (s *RedisStore) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	key := "ratelimit:" + identifier
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= s.limit, nil
}
