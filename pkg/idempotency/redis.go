package idempotency

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisStore is a Store backed by Redis so idempotency records are shared
// across gateway instances. SETNX provides the atomic claim; Redis key expiry
// provides TTL eviction for both in-flight and complete records.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed idempotency store
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "idempotency"
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) redisKey(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

// TryClaim implements Store
func (s *RedisStore) TryClaim(ctx context.Context, key, fingerprint string, ttl time.Duration) (ClaimResult, error) {
	record := Record{
		Key:         key,
		Fingerprint: fingerprint,
		Status:      StatusInFlight,
		CreatedAt:   time.Now().UTC(),
	}
	data, err := json.Marshal(record)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("marshal idempotency record: %w", err)
	}

	claimed, err := s.client.SetNX(ctx, s.redisKey(key), data, ttl).Result()
	if err != nil {
		return ClaimResult{}, fmt.Errorf("redis setnx: %w", err)
	}
	if claimed {
		return ClaimResult{Claimed: true}, nil
	}

	raw, err := s.client.Get(ctx, s.redisKey(key)).Bytes()
	if err == redis.Nil {
		// Existing record expired between SETNX and GET; claim on retry.
		return ClaimResult{Claimed: false, Existing: nil}, nil
	} else if err != nil {
		return ClaimResult{}, fmt.Errorf("redis get: %w", err)
	}

	var existing Record
	if err := json.Unmarshal(raw, &existing); err != nil {
		return ClaimResult{}, fmt.Errorf("unmarshal idempotency record: %w", err)
	}
	return ClaimResult{Claimed: false, Existing: &existing}, nil
}

// Complete implements Store. The record keeps its original TTL so completed
// responses age out on the same schedule as the claim that produced them.
func (s *RedisStore) Complete(ctx context.Context, key string, response StoredResponse) error {
	rkey := s.redisKey(key)

	raw, err := s.client.Get(ctx, rkey).Bytes()
	if err == redis.Nil {
		return fmt.Errorf("idempotency claim for %q expired before completion", key)
	} else if err != nil {
		return fmt.Errorf("redis get: %w", err)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("unmarshal idempotency record: %w", err)
	}

	record.Status = StatusComplete
	record.Response = &response
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal idempotency record: %w", err)
	}

	if err := s.client.Set(ctx, rkey, data, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}
