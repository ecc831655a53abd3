package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port" validate:"min=1,max=65535"`
	Environment string `json:"environment" validate:"required"`
	AdminGroup  string `json:"admin_group" validate:"required"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri" validate:"required"`
	MongoDatabase string `json:"mongo_database" validate:"required"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db" validate:"min=0"`

	// Collection names
	VoterCollection            string `json:"mongo_voter_collection" validate:"required"`
	VerificationCaseCollection string `json:"mongo_verification_case_collection" validate:"required"`
	InvalidVoteCollection      string `json:"mongo_invalid_vote_collection" validate:"required"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`

	// Document storage
	UploadDir    string `json:"upload_dir" validate:"required"`
	WhitelistDir string `json:"whitelist_dir"`
	MaxUploadMB  int64  `json:"max_upload_mb" validate:"min=1"`

	// OCR configuration
	TesseractPath     string        `json:"tesseract_path" validate:"required"`
	TesseractLanguage string        `json:"tesseract_language" validate:"required"`
	OCRMaxWidth       int           `json:"ocr_max_width" validate:"min=200"`
	OCRTimeout        time.Duration `json:"ocr_timeout" validate:"min=1s"`

	// Verification policy
	PerceptualThreshold float64 `json:"perceptual_threshold" validate:"min=0,max=100"`
	WhitelistThreshold  int     `json:"whitelist_threshold" validate:"min=0,max=64"`

	// Liveness policy
	MaxWarnings             int           `json:"max_warnings" validate:"min=1"`
	WarningIdlePeriod       time.Duration `json:"warning_idle_period" validate:"min=1s"`
	WarningStore            string        `json:"warning_store" validate:"oneof=memory redis"`
	PatternWindowSize       int           `json:"pattern_window_size" validate:"min=6"`
	PatternAnalysisInterval time.Duration `json:"pattern_analysis_interval"`
	FraudThreshold          float64       `json:"fraud_threshold" validate:"gt=0"`

	// Worker configuration
	VerificationWorkerCount int `json:"verification_worker_count" validate:"min=1"`
	VerificationQueueSize   int `json:"verification_queue_size" validate:"min=1"`

	// Task queue configuration
	TaskQueueEnabled      bool `json:"task_queue_enabled"`
	TaskWorkerConcurrency int  `json:"task_worker_concurrency" validate:"min=1"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables. A .env file in the
// working directory is read first when present; real environment variables win.
func LoadConfig() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	port, err := getEnvAsIntOrDefault("PORT", 8080)
	if err != nil {
		return err
	}

	redisDB, err := getEnvAsIntOrDefault("REDIS_DB", 0)
	if err != nil {
		return err
	}

	maxUploadMB, err := getEnvAsIntOrDefault("MAX_UPLOAD_MB", 10)
	if err != nil {
		return err
	}

	ocrMaxWidth, err := getEnvAsIntOrDefault("OCR_MAX_WIDTH", 1800)
	if err != nil {
		return err
	}

	ocrTimeout, err := getEnvAsDurationOrDefault("OCR_TIMEOUT", "30s")
	if err != nil {
		return err
	}

	perceptualThreshold, err := getEnvAsFloatOrDefault("PERCEPTUAL_THRESHOLD", 90)
	if err != nil {
		return err
	}

	whitelistThreshold, err := getEnvAsIntOrDefault("WHITELIST_THRESHOLD", 10)
	if err != nil {
		return err
	}

	maxWarnings, err := getEnvAsIntOrDefault("MAX_WARNINGS", 2)
	if err != nil {
		return err
	}

	warningIdlePeriod, err := getEnvAsDurationOrDefault("WARNING_IDLE_PERIOD", "5m")
	if err != nil {
		return err
	}

	patternWindowSize, err := getEnvAsIntOrDefault("PATTERN_WINDOW_SIZE", 30)
	if err != nil {
		return err
	}

	patternAnalysisInterval, err := getEnvAsDurationOrDefault("PATTERN_ANALYSIS_INTERVAL", "3s")
	if err != nil {
		return err
	}

	fraudThreshold, err := getEnvAsFloatOrDefault("FRAUD_THRESHOLD", 3)
	if err != nil {
		return err
	}

	workerCount, err := getEnvAsIntOrDefault("VERIFICATION_WORKER_COUNT", 4)
	if err != nil {
		return err
	}

	queueSize, err := getEnvAsIntOrDefault("VERIFICATION_QUEUE_SIZE", 100)
	if err != nil {
		return err
	}

	taskConcurrency, err := getEnvAsIntOrDefault("TASK_WORKER_CONCURRENCY", 10)
	if err != nil {
		return err
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),
		AdminGroup:  getEnvOrDefault("ADMIN_GROUP", "election-admin"),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "voting"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Collection names
		VoterCollection:            getEnvOrDefault("MONGODB_VOTER_COLLECTION", "voters"),
		VerificationCaseCollection: getEnvOrDefault("MONGODB_VERIFICATION_CASE_COLLECTION", "verification_cases"),
		InvalidVoteCollection:      getEnvOrDefault("MONGODB_INVALID_VOTE_COLLECTION", "invalid_votes"),

		// Tracing configuration
		TracingEnabled:  getEnvAsBool("TRACING_ENABLED"),
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),

		// Document storage
		UploadDir:    getEnvOrDefault("UPLOAD_DIR", "./uploads"),
		WhitelistDir: getEnvOrDefault("WHITELIST_DIR", ""),
		MaxUploadMB:  int64(maxUploadMB),

		// OCR configuration
		TesseractPath:     getEnvOrDefault("TESSERACT_PATH", "tesseract"),
		TesseractLanguage: getEnvOrDefault("TESSERACT_LANGUAGE", "eng"),
		OCRMaxWidth:       ocrMaxWidth,
		OCRTimeout:        ocrTimeout,

		// Verification policy
		PerceptualThreshold: perceptualThreshold,
		WhitelistThreshold:  whitelistThreshold,

		// Liveness policy
		MaxWarnings:             maxWarnings,
		WarningIdlePeriod:       warningIdlePeriod,
		WarningStore:            strings.ToLower(getEnvOrDefault("WARNING_STORE", "memory")),
		PatternWindowSize:       patternWindowSize,
		PatternAnalysisInterval: patternAnalysisInterval,
		FraudThreshold:          fraudThreshold,

		// Worker configuration
		VerificationWorkerCount: workerCount,
		VerificationQueueSize:   queueSize,

		// Task queue configuration
		TaskQueueEnabled:      getEnvAsBool("TASK_QUEUE_ENABLED"),
		TaskWorkerConcurrency: taskConcurrency,
	}

	if err := AppConfig.Validate(); err != nil {
		return err
	}

	return nil
}

// Validate checks the configuration against its struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault parses an integer environment variable
func getEnvAsIntOrDefault(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// getEnvAsFloatOrDefault parses a float environment variable
func getEnvAsFloatOrDefault(key string, defaultValue float64) (float64, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// getEnvAsDurationOrDefault parses a duration environment variable
func getEnvAsDurationOrDefault(key, defaultValue string) (time.Duration, error) {
	value, err := time.ParseDuration(getEnvOrDefault(key, defaultValue))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return value, nil
}

// getEnvAsBool reports whether the variable holds a truthy value
func getEnvAsBool(key string) bool {
	value, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && value
}
