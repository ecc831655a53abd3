package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/securevote/app-verify/internal/observability"
	"go.uber.org/zap"
)

const requestIDKey = "RequestID"

// RequestLogger logs request information
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		fields := []zap.Field{
			zap.String("path", path),
			zap.String("ip", c.ClientIP()),
			zap.String("method", c.Request.Method),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, zap.String("errors", c.Errors.String()))
		}
		observability.Logger().Info("request completed", fields...)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observability.RequestDuration.WithLabelValues(
			route,
			c.Request.Method,
			strconv.Itoa(status),
		).Observe(latency.Seconds())
	}
}

// RequestTracker tracks active connections
func RequestTracker() gin.HandlerFunc {
	return func(c *gin.Context) {
		observability.ActiveConnections.Inc()
		defer observability.ActiveConnections.Dec()
		c.Next()
	}
}

// RequestID adds a unique request ID to the context
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(requestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
