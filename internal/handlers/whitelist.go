package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/imagehash"
	"github.com/securevote/app-verify/internal/models"
)

// ImageWhitelist checks images against approved templates
type ImageWhitelist interface {
	IsImageAllowed(ctx context.Context, data []byte, opts imagehash.CheckOptions) (models.WhitelistResult, error)
}

// WhitelistHandlers serves the template whitelist check
type WhitelistHandlers struct {
	whitelist ImageWhitelist
	maxBytes  int64
}

// NewWhitelistHandlers creates a new whitelist handlers instance
func NewWhitelistHandlers(whitelist ImageWhitelist, maxBytes int64) *WhitelistHandlers {
	return &WhitelistHandlers{whitelist: whitelist, maxBytes: maxBytes}
}

// CheckImage godoc
// @Summary Check an image against the whitelist
// @Description Finds the closest approved template by 64-bit average hash. Patterns restrict which template names count as a match.
// @Tags whitelist
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image"
// @Param threshold formData int false "Maximum Hamming distance (0-64)"
// @Param patterns formData string false "Comma separated template name patterns"
// @Success 200 {object} models.WhitelistResult
// @Failure 400 {object} ErrorResponse
// @Router /whitelist/check [post]
func (h *WhitelistHandlers) CheckImage(c *gin.Context) {
	var opts imagehash.CheckOptions
	if raw := c.PostForm("threshold"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid threshold"})
			return
		}
		opts.Threshold = &threshold
	}
	for _, value := range c.PostFormArray("patterns") {
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				opts.AllowedPatterns = append(opts.AllowedPatterns, p)
			}
		}
	}

	header, err := c.FormFile("image")
	if err != nil {
		respondError(c, models.ErrImageRequired)
		return
	}
	if header.Size > h.maxBytes {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Image exceeds size limit"})
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, models.NewInfrastructureError("open upload", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxBytes))
	if err != nil {
		respondError(c, models.NewInfrastructureError("read upload", err))
		return
	}

	result, err := h.whitelist.IsImageAllowed(c.Request.Context(), data, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
