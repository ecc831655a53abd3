package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/trace"
)

func TestRequestTiming(t *testing.T) {
	router := gin.New()
	router.Use(RequestTiming())

	var started time.Time
	var hasSpan bool
	router.GET("/test", func(c *gin.Context) {
		started = c.GetTime("request_start_time")
		hasSpan = trace.SpanFromContext(c.Request.Context()) != nil
		c.Status(http.StatusInternalServerError)
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.False(t, started.IsZero())
	assert.True(t, hasSpan)
}
