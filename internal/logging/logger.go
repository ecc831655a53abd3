package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// Logger is the global logger instance
	Logger = &SafeLogger{}
)

// SafeLogger wraps a zap logger and tolerates being used before InitLogger runs
type SafeLogger struct {
	logger *zap.Logger
}

// NewSafeLogger wraps an existing zap logger
func NewSafeLogger(logger *zap.Logger) *SafeLogger {
	return &SafeLogger{logger: logger}
}

// InitLogger initializes the global logger
func InitLogger() error {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	// Set log level from environment
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(logLevel)); err == nil {
			config.Level = zap.NewAtomicLevelAt(level)
		}
	}

	zapLogger, err := config.Build(
		zap.AddCallerSkip(1),
		zap.Fields(
			zap.String("service", "app-verify"),
			zap.String("version", "v1"),
		),
	)
	if err != nil {
		return err
	}

	Logger = &SafeLogger{logger: zapLogger}
	zap.ReplaceGlobals(zapLogger)
	return nil
}

// Info logs at info level
func (l *SafeLogger) Info(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Info(msg, fields...)
}

// Warn logs at warn level
func (l *SafeLogger) Warn(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Warn(msg, fields...)
}

// Debug logs at debug level
func (l *SafeLogger) Debug(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Debug(msg, fields...)
}

// Error logs at error level
func (l *SafeLogger) Error(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Error(msg, fields...)
}

// Fatal logs at fatal level and exits. With no underlying logger it still exits.
func (l *SafeLogger) Fatal(msg string, fields ...zap.Field) {
	if l == nil || l.logger == nil {
		os.Exit(1)
	}
	l.logger.Fatal(msg, fields...)
}

// With returns a child logger carrying the given fields
func (l *SafeLogger) With(fields ...zap.Field) *SafeLogger {
	if l == nil || l.logger == nil {
		return &SafeLogger{}
	}
	return &SafeLogger{logger: l.logger.With(fields...)}
}

// Named returns a child logger with the given name segment
func (l *SafeLogger) Named(name string) *SafeLogger {
	if l == nil || l.logger == nil {
		return &SafeLogger{}
	}
	return &SafeLogger{logger: l.logger.Named(name)}
}

// Sync flushes buffered entries
func (l *SafeLogger) Sync() error {
	if l == nil || l.logger == nil {
		return nil
	}
	return l.logger.Sync()
}
