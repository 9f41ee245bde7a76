package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// KeyPrefix namespaces answer keys.
const KeyPrefix = "shopqa:answer:"

// RedisCache implements cache.Cache using Redis string keys.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new RedisCache. A zero ttl stores keys without expiry.
func New(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

// Get loads an answer stored under "shopqa:answer:{key}".
func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	answer, err := c.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read cached answer: %w", err)
	}
	return answer, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, answer string) error {
	if err := c.client.Set(ctx, KeyPrefix+key, answer, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache answer: %w", err)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
