package kv

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// RedisStore implements Store against a Redis-compatible backend.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore connects to the store at rawURL. Accepts redis:// and
// rediss:// URLs. An empty URL yields ErrNotConfigured so callers can
// degrade gracefully instead of crashing.
func NewRedisStore(rawURL string) (*RedisStore, error) {
	if rawURL == "" {
		return nil, ErrNotConfigured
	}
	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadStoreURL, err)
	}
	return &RedisStore{rdb: redis.NewClient(opts)}, nil
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}

// UpsertRanked inserts or updates member under sortValue.
func (s *RedisStore) UpsertRanked(ctx context.Context, setKey, member string, sortValue float64) error {
	if err := s.rdb.ZAdd(ctx, setKey, redis.Z{Score: sortValue, Member: member}).Err(); err != nil {
		return fmt.Errorf("zadd %s: %w", setKey, err)
	}
	return nil
}

// TrimToRank evicts every member ranked at or beyond keepCount.
func (s *RedisStore) TrimToRank(ctx context.Context, setKey string, keepCount int) error {
	if keepCount < 0 {
		keepCount = 0
	}
	if err := s.rdb.ZRemRangeByRank(ctx, setKey, int64(keepCount), -1).Err(); err != nil {
		return fmt.Errorf("zremrangebyrank %s: %w", setKey, err)
	}
	return nil
}

// CountLessOrEqual counts members sorting at or below sortValue, inclusive.
func (s *RedisStore) CountLessOrEqual(ctx context.Context, setKey string, sortValue float64) (int, error) {
	max := strconv.FormatFloat(sortValue, 'f', -1, 64)
	n, err := s.rdb.ZCount(ctx, setKey, "-inf", max).Result()
	if err != nil {
		return 0, fmt.Errorf("zcount %s: %w", setKey, err)
	}
	return int(n), nil
}

// RangeBest returns members best-first within rank bounds.
func (s *RedisStore) RangeBest(ctx context.Context, setKey string, start, end int) ([]string, error) {
	members, err := s.rdb.ZRange(ctx, setKey, int64(start), int64(end)).Result()
	if err != nil {
		return nil, fmt.Errorf("zrange %s: %w", setKey, err)
	}
	return members, nil
}

// TotalCount returns the set cardinality.
func (s *RedisStore) TotalCount(ctx context.Context, setKey string) (int, error) {
	n, err := s.rdb.ZCard(ctx, setKey).Result()
	if err != nil {
		return 0, fmt.Errorf("zcard %s: %w", setKey, err)
	}
	return int(n), nil
}

// RemoveMembers drops members from the set.
func (s *RedisStore) RemoveMembers(ctx context.Context, setKey string, members ...string) error {
	if len(members) == 0 {
		return nil
	}
	args := make([]interface{}, len(members))
	for i, m := range members {
		args[i] = m
	}
	if err := s.rdb.ZRem(ctx, setKey, args...).Err(); err != nil {
		return fmt.Errorf("zrem %s: %w", setKey, err)
	}
	return nil
}

// PutRecord stores an opaque payload. Records have no TTL; they live until
// an administrative clear or stale-entry cleanup removes them.
func (s *RedisStore) PutRecord(ctx context.Context, recordKey string, payload []byte) error {
	if err := s.rdb.Set(ctx, recordKey, payload, 0).Err(); err != nil {
		return fmt.Errorf("set %s: %w", recordKey, err)
	}
	return nil
}

// GetRecords batch-fetches payloads; missing keys yield nil slots.
func (s *RedisStore) GetRecords(ctx context.Context, keys ...string) ([][]byte, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		if str, ok := v.(string); ok {
			out[i] = []byte(str)
		}
	}
	return out, nil
}

// DeleteKeys removes whole keys one by one so the caller learns per-key
// whether anything was actually deleted.
func (s *RedisStore) DeleteKeys(ctx context.Context, keys ...string) ([]bool, error) {
	deleted := make([]bool, len(keys))
	for i, key := range keys {
		n, err := s.rdb.Del(ctx, key).Result()
		if err != nil {
			return deleted, fmt.Errorf("del %s: %w", key, err)
		}
		deleted[i] = n > 0
	}
	return deleted, nil
}

// Ping verifies connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
