package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/securevote/app-verify/internal/config"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/tasks"
	"go.uber.org/zap"
)

func main() {
	if err := logging.InitLogger(); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	logger := logging.Logger

	if err := config.LoadConfig(); err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}
	cfg := config.AppConfig

	observability.InitTracer()
	defer observability.ShutdownTracer()

	if err := config.InitMongoDB(); err != nil {
		logger.Fatal("failed to initialize MongoDB", zap.Error(err))
	}

	stores := repository.NewMongo(config.MongoClient, config.MongoDB, repository.Collections{
		Voters:       cfg.VoterCollection,
		Cases:        cfg.VerificationCaseCollection,
		InvalidVotes: cfg.InvalidVoteCollection,
	}).Stores()

	processor := tasks.NewProcessor(stores, logger)
	srv := tasks.NewServer(cfg, logger)

	logger.Info("starting task worker",
		zap.Int("concurrency", cfg.TaskWorkerConcurrency),
		zap.String("redis", cfg.RedisURI))

	if err := srv.Start(processor.ServeMux()); err != nil {
		logger.Fatal("failed to start task worker", zap.Error(err))
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down task worker...")
	srv.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := config.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("task worker stopped")
}
