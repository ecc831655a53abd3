package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/securevote/app-verify/internal/config"
	"github.com/securevote/app-verify/internal/documents"
	"github.com/securevote/app-verify/internal/handlers"
	"github.com/securevote/app-verify/internal/imagehash"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/middleware"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/ocr"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/services"
	"github.com/securevote/app-verify/internal/tasks"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	_ "github.com/securevote/app-verify/docs"
)

// @title           Voter Verification API
// @version         1.0
// @description     Identity verification and liveness monitoring for online voting. Uploaded identity documents are checked by OCR, then by image similarity, and fall back to admin review.

// @host      localhost:8080
// @BasePath  /v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
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
	config.InitRedis()

	stores := repository.NewMongo(config.MongoClient, config.MongoDB, repository.Collections{
		Voters:       cfg.VoterCollection,
		Cases:        cfg.VerificationCaseCollection,
		InvalidVotes: cfg.InvalidVoteCollection,
	}).Stores()

	storage, err := documents.NewStorage(cfg.UploadDir, cfg.MaxUploadMB<<20, logger.Named("documents"))
	if err != nil {
		logger.Fatal("failed to initialize document storage", zap.Error(err))
	}

	whitelist, err := imagehash.LoadWhitelist(cfg.WhitelistDir, cfg.WhitelistThreshold, logger.Named("whitelist"))
	if err != nil {
		logger.Fatal("failed to load whitelist", zap.Error(err))
	}

	var notifier services.Notifier = services.NopNotifier{}
	if cfg.TaskQueueEnabled {
		client := asynq.NewClient(tasks.RedisOpt(cfg))
		defer client.Close()
		notifier = tasks.NewNotifier(client, logger)
	}

	var warningStore services.WarningStore = services.NewMemoryWarningStore()
	if cfg.WarningStore == "redis" {
		warningStore = services.NewRedisWarningStore(config.Redis, "")
	}

	pool := services.NewWorkerPool(cfg.VerificationWorkerCount, cfg.VerificationQueueSize, logger)
	defer pool.Stop()

	locks := services.NewKeyedMutex()
	extractor := ocr.NewExtractor(
		ocr.NewTesseractEngine(cfg.TesseractPath, cfg.TesseractLanguage, cfg.OCRTimeout),
		cfg.OCRMaxWidth, os.TempDir(), logger.Named("ocr"))
	comparator := imagehash.NewComparator(cfg.PerceptualThreshold, logger.Named("imagehash"))

	cases := services.NewCaseManager(stores, locks, notifier, logger)
	orchestrator := services.NewOrchestrator(stores.Voters, storage, extractor, comparator, cases, pool, locks, logger)

	tracker := services.NewWarningTracker(warningStore, stores, notifier, services.WarningConfig{
		MaxWarnings: cfg.MaxWarnings,
		IdlePeriod:  cfg.WarningIdlePeriod,
	}, logger)
	patterns := services.DefaultPatternConfig()
	patterns.WindowSize = cfg.PatternWindowSize
	patterns.AnalysisInterval = cfg.PatternAnalysisInterval
	patterns.FraudThreshold = cfg.FraudThreshold
	liveness := services.NewLivenessService(stores.Voters, tracker, patterns, locks, logger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.RequestTiming(),
		middleware.RequestLogger(),
		middleware.RequestTracker(),
		middleware.AuditMiddleware(logger),
		cors.Default(),
	)
	router.MaxMultipartMemory = cfg.MaxUploadMB << 20

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	handlers.RegisterRoutes(router, handlers.Handlers{
		Health: handlers.NewHealthHandlers(map[string]handlers.HealthCheckFunc{
			"mongodb": func(ctx context.Context) error { return config.MongoClient.Ping(ctx, readpref.Primary()) },
			"redis":   func(ctx context.Context) error { return config.Redis.Ping(ctx).Err() },
		}),
		Voters:       handlers.NewVoterHandlers(services.NewVoterService(stores.Voters, storage, logger)),
		Verification: handlers.NewVerificationHandlers(orchestrator, storage),
		Cases:        handlers.NewCaseHandlers(cases),
		Liveness:     handlers.NewLivenessHandlers(liveness),
		Whitelist:    handlers.NewWhitelistHandlers(whitelist, cfg.MaxUploadMB<<20),
	})

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2*cfg.OCRTimeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server",
			zap.Int("port", cfg.Port),
			zap.String("environment", cfg.Environment),
			zap.Int("whitelist_templates", whitelist.Len()),
			zap.String("warning_store", cfg.WarningStore),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := config.MongoClient.Disconnect(ctx); err != nil {
		logger.Error("failed to disconnect from MongoDB", zap.Error(err))
	}

	logger.Info("server exited gracefully")
}
