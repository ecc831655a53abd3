package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/redisclient"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.uber.org/zap"
)

var (
	// MongoClient is kept alongside the database handle so callers can open sessions
	MongoClient *mongo.Client
	// MongoDB database handle
	MongoDB *mongo.Database
	// Redis client
	Redis *redisclient.Client
)

// InitMongoDB initializes the MongoDB connection, retrying with exponential backoff
func InitMongoDB() error {
	opts := options.Client().
		ApplyURI(AppConfig.MongoURI).
		SetMonitor(otelmongo.NewMonitor()).
		SetMaxPoolSize(100).
		SetMinPoolSize(10).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true).
		SetRetryReads(true)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = time.Minute

	var client *mongo.Client
	connect := func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		c, err := mongo.Connect(ctx, opts)
		if err != nil {
			return err
		}
		if err := c.Ping(ctx, readpref.Primary()); err != nil {
			_ = c.Disconnect(context.Background())
			return err
		}
		client = c
		return nil
	}

	notify := func(err error, wait time.Duration) {
		logging.Logger.Warn("mongodb connection attempt failed, retrying",
			zap.Error(err),
			zap.Duration("retry_in", wait))
	}

	if err := backoff.RetryNotify(connect, policy, notify); err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	MongoClient = client
	MongoDB = client.Database(AppConfig.MongoDatabase)

	if err := ensureIndexes(); err != nil {
		logging.Logger.Error("failed to ensure indexes on startup", zap.Error(err))
	}

	logging.Logger.Info("connected to MongoDB",
		zap.String("uri", maskMongoURI(AppConfig.MongoURI)),
		zap.String("database", AppConfig.MongoDatabase),
	)
	return nil
}

// InitRedis initializes the Redis connection
func InitRedis() {
	redisClient := redis.NewClient(&redis.Options{
		Addr:         AppConfig.RedisURI,
		Password:     AppConfig.RedisPassword,
		DB:           AppConfig.RedisDB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 5,
	})

	// Wrap with traced client
	Redis = redisclient.NewClient(redisClient)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Redis.Ping(ctx).Err(); err != nil {
		logging.Logger.Error("failed to connect to Redis",
			zap.String("uri", AppConfig.RedisURI),
			zap.Error(err))
		return
	}

	logging.Logger.Info("connected to Redis",
		zap.String("uri", AppConfig.RedisURI))
}

// maskMongoURI masks sensitive information in MongoDB URI
func maskMongoURI(uri string) string {
	at := strings.LastIndex(uri, "@")
	if at < 0 {
		return uri
	}
	return "mongodb://****:****@" + uri[at+1:]
}

// IndexSpecs returns the indexes each collection needs, keyed by collection name
func IndexSpecs(cfg *Config) map[string][]mongo.IndexModel {
	return map[string][]mongo.IndexModel{
		cfg.VoterCollection: {
			{
				Keys:    bson.D{{Key: "voter_id", Value: 1}},
				Options: options.Index().SetName("voter_id_1").SetUnique(true),
			},
		},
		cfg.VerificationCaseCollection: {
			{
				Keys:    bson.D{{Key: "case_id", Value: 1}},
				Options: options.Index().SetName("case_id_1").SetUnique(true),
			},
			{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("status_1_created_at_-1"),
			},
			// At most one pending case per voter
			{
				Keys: bson.D{{Key: "voter_id", Value: 1}},
				Options: options.Index().
					SetName("voter_id_pending_unique").
					SetUnique(true).
					SetPartialFilterExpression(bson.M{"status": "pending"}),
			},
		},
		cfg.InvalidVoteCollection: {
			{
				Keys:    bson.D{{Key: "voter_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("voter_id_1_timestamp_-1"),
			},
		},
	}
}

// ensureIndexes creates required indexes if they don't exist
func ensureIndexes() error {
	logger := logging.Logger.Named("database")
	logger.Info("ensuring required indexes exist")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for collection, models := range IndexSpecs(AppConfig) {
		if err := EnsureCollectionIndexes(ctx, MongoDB, collection, models, logger); err != nil {
			return err
		}
	}

	logger.Info("all required indexes verified")
	return nil
}

// EnsureCollectionIndexes creates any of the named indexes missing from the collection
func EnsureCollectionIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel, logger *logging.SafeLogger) error {
	collection := db.Collection(name)

	cursor, err := collection.Indexes().List(ctx)
	if err != nil {
		logger.Error("failed to list indexes", zap.String("collection", name), zap.Error(err))
		return err
	}
	defer cursor.Close(ctx)

	existingIndexes := make(map[string]bool)
	for cursor.Next(ctx) {
		var index bson.M
		if err := cursor.Decode(&index); err != nil {
			continue
		}
		if indexName, ok := index["name"].(string); ok {
			existingIndexes[indexName] = true
		}
	}

	created := 0
	for _, model := range models {
		if model.Options != nil && model.Options.Name != nil && existingIndexes[*model.Options.Name] {
			continue
		}
		if _, err := collection.Indexes().CreateOne(ctx, model); err != nil {
			// Another instance may have created it concurrently
			if mongo.IsDuplicateKeyError(err) {
				logger.Info("index already exists (created by another instance)", zap.String("collection", name))
				continue
			}
			logger.Error("failed to create index", zap.String("collection", name), zap.Error(err))
			return err
		}
		created++
	}

	if created > 0 {
		logger.Info("created collection indexes",
			zap.String("collection", name),
			zap.Int("count", created))
	} else {
		logger.Debug("collection indexes already exist", zap.String("collection", name))
	}
	return nil
}
