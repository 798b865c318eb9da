// Package cache provides a Redis read-through cache for token resolution.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a resolved token stays cached.
const DefaultTTL = time.Hour

// RedisCache stores token -> long URL pairs under "short:<token>" keys.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to addr and verifies the connection.
func NewRedisCache(ctx context.Context, addr string, ttl time.Duration) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisCacheWithClient(client, ttl), nil
}

func NewRedisCacheWithClient(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func key(token string) string {
	return "short:" + token
}

// Get returns the cached long URL. A miss is reported with ok == false.
func (c *RedisCache) Get(ctx context.Context, token string) (string, bool, error) {
	val, err := c.client.Get(ctx, key(token)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, token, longURL string) error {
	return c.client.Set(ctx, key(token), longURL, c.ttl).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
