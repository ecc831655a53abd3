package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/observability"
	"go.uber.org/zap"
)

// AuditMiddleware writes an audit line for every successful write request.
// Request bodies are not recorded since they carry identity documents.
func AuditMiddleware(logger *logging.SafeLogger) gin.HandlerFunc {
	audit := logger.Named("audit")
	return func(c *gin.Context) {
		method := c.Request.Method
		if method == http.MethodGet || method == http.MethodHead || method == http.MethodOptions {
			c.Next()
			return
		}

		c.Next()

		status := c.Writer.Status()
		if status < 200 || status >= 300 {
			return
		}

		fields := []zap.Field{
			zap.String("action", mapHTTPMethodToAction(method)),
			zap.String("resource", extractResourceFromPath(c.Request.URL.Path)),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.String("ip_address", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		}
		if id := extractResourceID(c); id != "" {
			fields = append(fields, zap.String("resource_id", id))
		}
		if voterID := c.Param("voterId"); voterID != "" {
			fields = append(fields, zap.String("voter_id", observability.MaskVoterID(voterID)))
		}
		if reviewer, err := ReviewerID(c); err == nil {
			fields = append(fields, zap.String("actor", reviewer))
		}
		audit.Info("audit event", fields...)
	}
}

func mapHTTPMethodToAction(method string) string {
	switch method {
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "other"
	}
}

// extractResourceFromPath maps a request path to the audited resource type
func extractResourceFromPath(path string) string {
	path = strings.TrimPrefix(path, "/v1/")
	switch {
	case strings.HasPrefix(path, "admin/cases/") && strings.HasSuffix(path, "/approve"):
		return "case_approval"
	case strings.HasPrefix(path, "admin/cases/") && strings.HasSuffix(path, "/reject"):
		return "case_rejection"
	case strings.HasPrefix(path, "liveness/"):
		return "liveness_session"
	case strings.HasPrefix(path, "verification/"):
		return "verification"
	case strings.HasPrefix(path, "whitelist/"):
		return "whitelist"
	case strings.HasPrefix(path, "voters"):
		return "voter"
	}
	if parts := strings.Split(path, "/"); parts[0] != "" {
		return parts[0]
	}
	return "unknown"
}

func extractResourceID(c *gin.Context) string {
	if id := c.Param("caseId"); id != "" {
		return id
	}
	return ""
}
