package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	assert.Equal(t, "short:abcde", key("abcde"))
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	// Port 1 on loopback refuses connections.
	_, err := NewRedisCache(ctx, "127.0.0.1:1", DefaultTTL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping redis")
}

func TestRedisCache_ErrorsSurface(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		MaxRetries:  -1,
		DialTimeout: 100 * time.Millisecond,
	})
	c := NewRedisCacheWithClient(client, DefaultTTL)
	defer c.Close()

	_, ok, err := c.Get(context.Background(), "abcde")
	assert.Error(t, err)
	assert.False(t, ok)

	assert.Error(t, c.Set(context.Background(), "abcde", "https://example.com"))
}

func TestRedisCache_Get(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewRedisCacheWithClient(client, DefaultTTL)
	ctx := context.Background()

	t.Run("hit", func(t *testing.T) {
		mock.ExpectGet("short:abcde").SetVal("https://example.com")

		longURL, ok, err := c.Get(ctx, "abcde")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "https://example.com", longURL)
	})

	t.Run("miss", func(t *testing.T) {
		mock.ExpectGet("short:zzzzz").RedisNil()

		longURL, ok, err := c.Get(ctx, "zzzzz")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Empty(t, longURL)
	})

	t.Run("error", func(t *testing.T) {
		mock.ExpectGet("short:abcde").SetErr(errors.New("READONLY"))

		_, ok, err := c.Get(ctx, "abcde")
		assert.EqualError(t, err, "READONLY")
		assert.False(t, ok)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCache_SetUsesTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	ttl := 90 * time.Second
	c := NewRedisCacheWithClient(client, ttl)
	ctx := context.Background()

	mock.ExpectSet("short:abcde", "https://example.com", ttl).SetVal("OK")
	require.NoError(t, c.Set(ctx, "abcde", "https://example.com"))

	mock.ExpectSet("short:fghij", "https://example.org", ttl).SetErr(errors.New("OOM"))
	assert.EqualError(t, c.Set(ctx, "fghij", "https://example.org"), "OOM")

	assert.NoError(t, mock.ExpectationsWereMet())
}
