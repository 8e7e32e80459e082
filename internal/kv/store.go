package kv

import (
	"context"
	"sort"

	"github.com/redis/go-redis/v9"
)

// Store is the flat key-value namespace every record lives in. It offers no
// multi-key transactions; callers sequence their own writes and tolerate
// partial failure between keys.
type Store interface {
	// Get returns the value stored at key. The boolean reports presence so
	// an absent key is distinguishable from a store failure.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	// GetByPrefix returns the values of every key starting with prefix,
	// ordered by key. This is the only bulk-read primitive.
	GetByPrefix(ctx context.Context, prefix string) ([][]byte, error)
}

type redisStore struct {
	client *redis.Client
}

// NewRedisStore wraps a Redis client with the Store contract.
func NewRedisStore(client *redis.Client) Store {
	return &redisStore{client: client}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := s.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	return value, true, nil
}

func (s *redisStore) Set(ctx context.Context, key string, value []byte) error {
	return s.client.Set(ctx, key, value, 0).Err()
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}

func (s *redisStore) GetByPrefix(ctx context.Context, prefix string) ([][]byte, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, prefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}

	if len(keys) == 0 {
		return nil, nil
	}

	// SCAN order is unspecified; sort so listings are stable.
	sort.Strings(keys)

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	results := make([][]byte, 0, len(values))
	for _, value := range values {
		// A key can disappear between SCAN and MGET.
		if value == nil {
			continue
		}
		if str, ok := value.(string); ok {
			results = append(results, []byte(str))
		}
	}

	return results, nil
}
