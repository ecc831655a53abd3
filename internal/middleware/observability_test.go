package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/stretchr/testify/assert"
)

func TestRequestID_Generated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	id := w.Header().Get("X-Request-ID")
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Body.String())
}

func TestRequestID_Propagated(t *testing.T) {
	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Request-ID", "upstream-42")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "upstream-42", w.Header().Get("X-Request-ID"))
}

func TestRequestLogger_RecordsDuration(t *testing.T) {
	router := gin.New()
	router.Use(RequestID(), RequestLogger())
	router.GET("/voters/:voterId", func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "voter not found"})
	})

	req, _ := http.NewRequest(http.MethodGet, "/voters/VOTER-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.GreaterOrEqual(t, testutil.CollectAndCount(observability.RequestDuration), 1)
}

func TestRequestTracker(t *testing.T) {
	var during float64
	router := gin.New()
	router.Use(RequestTracker())
	router.GET("/test", func(c *gin.Context) {
		during = testutil.ToFloat64(observability.ActiveConnections)
		c.Status(http.StatusOK)
	})

	before := testutil.ToFloat64(observability.ActiveConnections)
	req, _ := http.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, before+1, during)
	assert.Equal(t, before, testutil.ToFloat64(observability.ActiveConnections))
}
