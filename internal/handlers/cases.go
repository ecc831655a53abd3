package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/middleware"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/services"
)

// CaseHandlers serves the admin review endpoints
type CaseHandlers struct {
	cases *services.CaseManager
}

// NewCaseHandlers creates a new case handlers instance
func NewCaseHandlers(cases *services.CaseManager) *CaseHandlers {
	return &CaseHandlers{cases: cases}
}

// ListCases godoc
// @Summary List verification cases
// @Description Lists cases newest first, optionally filtered by status
// @Tags admin
// @Produce json
// @Param status query string false "pending, approved or rejected"
// @Param page query int false "Page (default 1)"
// @Param limit query int false "Items per page (default 20, max 100)"
// @Security BearerAuth
// @Success 200 {object} models.CaseListResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/cases [get]
func (h *CaseHandlers) ListCases(c *gin.Context) {
	filter := models.CaseFilter{Status: models.CaseStatus(c.Query("status"))}

	var err error
	if page := c.Query("page"); page != "" {
		if filter.Page, err = strconv.Atoi(page); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid page"})
			return
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if filter.Limit, err = strconv.Atoi(limit); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid limit"})
			return
		}
	}

	result, err := h.cases.ListCases(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetCase godoc
// @Summary Get a verification case
// @Tags admin
// @Produce json
// @Param caseId path string true "Case ID"
// @Security BearerAuth
// @Success 200 {object} models.VerificationCase
// @Failure 404 {object} ErrorResponse
// @Router /admin/cases/{caseId} [get]
func (h *CaseHandlers) GetCase(c *gin.Context) {
	vc, err := h.cases.GetCase(c.Request.Context(), c.Param("caseId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, vc)
}

// ApproveCase godoc
// @Summary Approve a verification case
// @Description Marks the case approved and the voter verified. A decided case cannot be decided again.
// @Tags admin
// @Accept json
// @Produce json
// @Param caseId path string true "Case ID"
// @Param data body models.CaseDecisionRequest false "Optional reason"
// @Security BearerAuth
// @Success 200 {object} models.CaseDecisionResult
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Case already decided"
// @Router /admin/cases/{caseId}/approve [post]
func (h *CaseHandlers) ApproveCase(c *gin.Context) {
	h.decide(c, h.cases.Approve)
}

// RejectCase godoc
// @Summary Reject a verification case
// @Description Marks the case rejected and the voter rejected. A reason is required.
// @Tags admin
// @Accept json
// @Produce json
// @Param caseId path string true "Case ID"
// @Param data body models.CaseDecisionRequest true "Reason"
// @Security BearerAuth
// @Success 200 {object} models.CaseDecisionResult
// @Failure 400 {object} ErrorResponse "Reason missing"
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Case already decided"
// @Router /admin/cases/{caseId}/reject [post]
func (h *CaseHandlers) RejectCase(c *gin.Context) {
	h.decide(c, h.cases.Reject)
}

type decisionFunc func(ctx context.Context, caseID, adminID, reason string) (*models.CaseDecisionResult, error)

func (h *CaseHandlers) decide(c *gin.Context, fn decisionFunc) {
	var req models.CaseDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	reviewer, err := middleware.ReviewerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Reviewer identity not found"})
		return
	}

	result, err := fn(c.Request.Context(), c.Param("caseId"), reviewer, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetStatistics godoc
// @Summary Case statistics
// @Description Counts cases per status
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.CaseStatistics
// @Router /admin/statistics [get]
func (h *CaseHandlers) GetStatistics(c *gin.Context) {
	stats, err := h.cases.GetStatistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// InvalidVotesResponse lists the invalidation records of a voter
type InvalidVotesResponse struct {
	VoterID string               `json:"voterId"`
	Votes   []models.InvalidVote `json:"votes"`
}

// ListInvalidVotes godoc
// @Summary List invalidated votes of a voter
// @Tags admin
// @Produce json
// @Param voterId path string true "Voter ID"
// @Security BearerAuth
// @Success 200 {object} InvalidVotesResponse
// @Router /admin/voters/{voterId}/invalid-votes [get]
func (h *CaseHandlers) ListInvalidVotes(c *gin.Context) {
	voterID := c.Param("voterId")
	votes, err := h.cases.InvalidVotes(c.Request.Context(), voterID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, InvalidVotesResponse{VoterID: voterID, Votes: votes})
}
