package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ratelimit:"

// RedisStore implements the same fixed-window policy on a shared Redis
// instance, so several replicas see one counter per client identity.
// The INCR/EXPIRE pair gives the window its size; the count key expires
// on its own, so no janitor is needed.
type RedisStore struct {
	client *redis.Client
	limit  int
	window time.Duration
}

// NewRedisStore creates a RedisStore admitting at most limit submissions
// per identity per window.
func NewRedisStore(client *redis.Client, limit int, window time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		limit:  limit,
		window: window,
	}
}

// Allow implements Gate. INCR is atomic server-side, so concurrent
// requests from one identity cannot exceed the limit through a race.
func (s *RedisStore) Allow(ctx context.Context, identity string) (bool, error) {
	key := redisKeyPrefix + identity

	n, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate counter for %s: %w", identity, err)
	}

	// First hit in a window starts the bucket clock.
	if n == 1 {
		if err := s.client.Expire(ctx, key, s.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate counter expiry for %s: %w", identity, err)
		}
	}

	return n <= int64(s.limit), nil
}
