package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// RequestTiming wraps every request in a span and exposes the start time to handlers
func RequestTiming() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Set("request_start_time", start)

		ctx, span := otel.Tracer("http").Start(c.Request.Context(), "http.request")
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", c.Request.Method),
			attribute.String("http.route", c.FullPath()),
			attribute.String("http.user_agent", c.Request.UserAgent()),
			attribute.String("http.request_id", c.GetString(requestIDKey)),
		)

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			attribute.Int("http.status_code", status),
			attribute.Int64("http.duration_ms", time.Since(start).Milliseconds()),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, c.Errors.String())
		}
	}
}
