package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusForError maps the error taxonomy to HTTP status codes
func StatusForError(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, models.ErrExtraction):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with the status of its kind. Infrastructure details
// stay in the logs unless the error is one the caller can act on.
func respondError(c *gin.Context, err error) {
	_ = c.Error(err)
	status := StatusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		observability.Logger().Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
		if !errors.Is(err, models.ErrOriginalDocumentMissing) {
			message = "Internal server error"
		}
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message})
}
