package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "adventurelog:kv:"

// RedisStore keeps JSON-encoded values under prefix+id. A positive ttl is
// refreshed on every Put.
type RedisStore[T any] struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisStore[T any](client *redis.Client, prefix string, ttl time.Duration) *RedisStore[T] {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore[T]{client: client, prefix: prefix, ttl: ttl}
}

func (s *RedisStore[T]) Get(ctx context.Context, id string) (T, bool, error) {
	var zero T
	b, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		return zero, false, fmt.Errorf("redis get %s: %w", id, err)
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return zero, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return v, true, nil
}

func (s *RedisStore[T]) Put(ctx context.Context, id string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode session %s: %w", id, err)
	}
	if err := s.client.Set(ctx, s.prefix+id, b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore[T]) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, s.prefix+id).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", id, err)
	}
	return nil
}

func (s *RedisStore[T]) NewID() string {
	return uuid.NewString()
}

func (s *RedisStore[T]) Close() error {
	return s.client.Close()
}
