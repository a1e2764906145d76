package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCounterStore is a CounterStore backed by Redis, allowing rate limits to
// be shared across multiple gateway instances.
type RedisCounterStore struct {
	client *redis.Client
	prefix string
}

// NewRedisCounterStore creates a Redis-backed counter store
func NewRedisCounterStore(client *redis.Client, prefix string) *RedisCounterStore {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisCounterStore{client: client, prefix: prefix}
}

// ReadAndIncrement implements CounterStore. INCR is atomic in Redis, so two
// concurrent requests for the same key always observe distinct counts. The
// key expires at the end of the window, which is also what resets the counter.
func (s *RedisCounterStore) ReadAndIncrement(ctx context.Context, key string, window time.Duration) (int64, time.Time, error) {
	rkey := fmt.Sprintf("%s:%s", s.prefix, key)

	count, err := s.client.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis incr: %w", err)
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, rkey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis expire: %w", err)
		}
	}

	ttl, err := s.client.PTTL(ctx, rkey).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis pttl: %w", err)
	}
	if ttl < 0 {
		// Key lost its expiry (e.g. a crashed claimant between INCR and
		// PEXPIRE). Reattach it rather than leaving an immortal counter.
		if err := s.client.PExpire(ctx, rkey, window).Err(); err != nil {
			return 0, time.Time{}, fmt.Errorf("redis expire: %w", err)
		}
		ttl = window
	}

	windowStart := time.Now().Add(ttl).Add(-window)
	return count, windowStart, nil
}

// Reset clears the counter for a key (for testing or admin purposes)
func (s *RedisCounterStore) Reset(ctx context.Context, key string) error {
	return s.client.Del(ctx, fmt.Sprintf("%s:%s", s.prefix, key)).Err()
}
