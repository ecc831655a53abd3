package tasks

import (
	"context"

	"github.com/hibiken/asynq"
	"github.com/securevote/app-verify/internal/config"
	"github.com/securevote/app-verify/internal/logging"
	"go.uber.org/zap"
)

// RedisOpt builds the asynq connection from the Redis settings.
func RedisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.RedisURI,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}
}

// NewServer creates the worker server with the queue weights of this package.
func NewServer(cfg *config.Config, logger *logging.SafeLogger) *asynq.Server {
	log := logger.Named("asynq")
	return asynq.NewServer(RedisOpt(cfg), asynq.Config{
		Concurrency: cfg.TaskWorkerConcurrency,
		Queues:      Queues,
		ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
			retried, _ := asynq.GetRetryCount(ctx)
			maxRetry, _ := asynq.GetMaxRetry(ctx)
			log.Error("task failed",
				zap.String("type", task.Type()),
				zap.Int("retry", retried),
				zap.Int("max_retry", maxRetry),
				zap.Error(err))
		}),
	})
}
