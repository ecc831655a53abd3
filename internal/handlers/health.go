package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// HealthCheckFunc probes one dependency
type HealthCheckFunc func(ctx context.Context) error

// HealthResponse reports the state of every dependency
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HealthHandlers serves the health endpoint
type HealthHandlers struct {
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(checks map[string]HealthCheckFunc) *HealthHandlers {
	return &HealthHandlers{checks: checks, timeout: 2 * time.Second}
}

// HealthCheck godoc
// @Summary Health check
// @Description Pings every dependency
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (h *HealthHandlers) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	health := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Services:  make(map[string]string, len(h.checks)),
	}

	for name, check := range h.checks {
		_, span, cleanup := utils.TraceOperation(ctx, "health.ping", map[string]interface{}{"service.name": name})
		if err := check(ctx); err != nil {
			utils.RecordErrorInSpan(span, err, nil)
			observability.Logger().Warn("health check failed", zap.String("service", name), zap.Error(err))
			health.Status = "unhealthy"
			health.Services[name] = "unhealthy"
		} else {
			health.Services[name] = "healthy"
		}
		cleanup()
	}

	if health.Status != "healthy" {
		c.JSON(http.StatusServiceUnavailable, health)
		return
	}
	c.JSON(http.StatusOK, health)
}
