package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/services"
)

// LivenessHandlers serves voting sessions and their detection samples
type LivenessHandlers struct {
	liveness *services.LivenessService
}

// NewLivenessHandlers creates a new liveness handlers instance
func NewLivenessHandlers(liveness *services.LivenessService) *LivenessHandlers {
	return &LivenessHandlers{liveness: liveness}
}

// StartSession godoc
// @Summary Start a voting session
// @Description Opens the liveness session of a voter. Starting an active session returns it unchanged.
// @Tags liveness
// @Accept json
// @Produce json
// @Param data body models.StartSessionRequest true "Session"
// @Success 201 {object} models.LivenessSession
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voter blocked"
// @Router /liveness/sessions [post]
func (h *LivenessHandlers) StartSession(c *gin.Context) {
	var req models.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	session, err := h.liveness.StartSession(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

// GetSession godoc
// @Summary Get a voting session
// @Tags liveness
// @Produce json
// @Param voterId path string true "Voter ID"
// @Success 200 {object} models.LivenessSession
// @Failure 404 {object} ErrorResponse
// @Router /liveness/sessions/{voterId} [get]
func (h *LivenessHandlers) GetSession(c *gin.Context) {
	session, err := h.liveness.GetSession(c.Param("voterId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

// EndSession godoc
// @Summary End a voting session
// @Tags liveness
// @Param voterId path string true "Voter ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /liveness/sessions/{voterId} [delete]
func (h *LivenessHandlers) EndSession(c *gin.Context) {
	if err := h.liveness.EndSession(c.Request.Context(), c.Param("voterId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Observe godoc
// @Summary Submit a detection sample
// @Description Feeds one observation to the pattern detector and the warning tracker. When the warning limit is reached the vote is invalidated and the response carries the recorded evidence with accepted=false.
// @Tags liveness
// @Accept json
// @Produce json
// @Param data body models.Observation true "Observation"
// @Success 200 {object} models.ObservationResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No active session"
// @Router /liveness/observations [post]
func (h *LivenessHandlers) Observe(c *gin.Context) {
	var obs models.Observation
	if err := c.ShouldBindJSON(&obs); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.liveness.Observe(c.Request.Context(), obs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
