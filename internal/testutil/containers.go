// Package testutil starts throwaway MongoDB and Redis containers for
// integration tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"github.com/testcontainers/testcontainers-go/modules/redis"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// skipUnlessDocker skips integration tests in -short mode or without a Docker provider.
func skipUnlessDocker(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)
}

// MongoDatabase starts a single-node replica set so transactions are available
// and returns a fresh database on it. The container is terminated on cleanup.
func MongoDatabase(t *testing.T) (*mongo.Client, *mongo.Database) {
	t.Helper()
	skipUnlessDocker(t)

	ctx := context.Background()
	container, err := mongodb.Run(ctx, "mongo:7.0", mongodb.WithReplicaSet("rs0"))
	require.NoError(t, err, "failed to start MongoDB container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get MongoDB connection string")

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri).SetDirect(true))
	require.NoError(t, err, "failed to connect to MongoDB")
	require.NoError(t, client.Ping(connectCtx, nil), "failed to ping MongoDB")
	t.Cleanup(func() {
		_ = client.Disconnect(context.Background())
	})

	name := fmt.Sprintf("app_verify_test_%d", time.Now().UnixNano())
	return client, client.Database(name)
}

// RedisClient starts a Redis container and returns a connected client.
func RedisClient(t *testing.T) *goredis.Client {
	t.Helper()
	skipUnlessDocker(t)

	ctx := context.Background()
	container, err := redis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err, "failed to start Redis container")
	t.Cleanup(func() {
		_ = container.Terminate(context.Background())
	})

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get Redis connection string")

	opts, err := goredis.ParseURL(uri)
	require.NoError(t, err)

	client := goredis.NewClient(opts)
	require.NoError(t, client.Ping(ctx).Err(), "failed to ping Redis")
	t.Cleanup(func() {
		_ = client.Close()
	})
	return client
}
