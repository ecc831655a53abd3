package redisclient

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupRedisForTest initializes Redis client for testing
func setupRedisForTest(t *testing.T) (*Client, func()) {
	redisAddr := os.Getenv("REDIS_ADDR")
	if redisAddr == "" {
		t.Skip("Skipping Redis integration tests: REDIS_ADDR not set")
	}

	singleClient := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	client := NewClient(singleClient)

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err(), "failed to connect to Redis")

	return client, func() {
		client.Del(context.Background(), "test:redisclient:key")
		singleClient.Close()
	}
}

func TestClient_SetGetDel(t *testing.T) {
	client, cleanup := setupRedisForTest(t)
	defer cleanup()

	ctx := context.Background()
	key := "test:redisclient:key"

	require.NoError(t, client.Set(ctx, key, "value", time.Minute).Err())

	value, err := client.Get(ctx, key).Result()
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	deleted, err := client.Del(ctx, key).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 1, deleted)

	_, err = client.Get(ctx, key).Result()
	assert.True(t, errors.Is(err, redis.Nil))
}

func TestClient_UnreachableServer(t *testing.T) {
	singleClient := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer singleClient.Close()

	client := NewClient(singleClient)
	assert.Error(t, client.Ping(context.Background()).Err())
	assert.Error(t, client.Get(context.Background(), "any").Err())
}
