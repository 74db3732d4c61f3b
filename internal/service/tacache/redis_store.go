package tacache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps the cache object in a single Redis hash, one field per
// fingerprint.
type RedisStore struct {
	client  *redis.Client
	hashKey string
	timeout time.Duration
}

func NewRedisStore(client *redis.Client, hashKey string) *RedisStore {
	return &RedisStore{
		client:  client,
		hashKey: hashKey,
		timeout: 5 * time.Second,
	}
}

func (s *RedisStore) Load() (map[string]json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	fields, err := s.client.HGetAll(ctx, s.hashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}

	entries := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		entries[k] = json.RawMessage(v)
	}
	return entries, nil
}

func (s *RedisStore) Save(entries map[string]json.RawMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.hashKey)
	if len(entries) > 0 {
		values := make(map[string]interface{}, len(entries))
		for k, v := range entries {
			values[k] = string(v)
		}
		pipe.HSet(ctx, s.hashKey, values)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis save: %w", err)
	}
	return nil
}
