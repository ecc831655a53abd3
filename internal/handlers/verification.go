package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/documents"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// Verifier runs the layered identity verification
type Verifier interface {
	VerifyVoter(ctx context.Context, voterID string, step2 models.Document) (*models.VerificationOutcome, error)
}

// UploadStore keeps uploaded documents
type UploadStore interface {
	Save(category, originalName string, r io.Reader) (models.Document, error)
	Remove(doc models.Document) error
}

// VerificationHandlers serves the identity verification endpoint
type VerificationHandlers struct {
	verifier Verifier
	uploads  UploadStore
}

// NewVerificationHandlers creates a new verification handlers instance
func NewVerificationHandlers(verifier Verifier, uploads UploadStore) *VerificationHandlers {
	return &VerificationHandlers{verifier: verifier, uploads: uploads}
}

// VerifyVoter godoc
// @Summary Verify a voter's identity document
// @Description Compares the uploaded document with the registration document. Matching identifiers (layer 1) or images (layer 2) verify the voter immediately; otherwise a case is opened for admin review (layer 3) and verified is false.
// @Tags verification
// @Accept multipart/form-data
// @Produce json
// @Param voterId formData string true "Voter ID"
// @Param idImage formData file true "Identity document (PNG or JPEG)"
// @Success 200 {object} models.VerificationOutcome
// @Failure 400 {object} ErrorResponse "Missing voterId or image"
// @Failure 404 {object} ErrorResponse "Voter not found"
// @Failure 409 {object} ErrorResponse "Voter blocked or already under review"
// @Failure 500 {object} ErrorResponse "Storage failure or original document missing"
// @Router /verification/verify [post]
func (h *VerificationHandlers) VerifyVoter(c *gin.Context) {
	ctx, span, cleanup := utils.TraceOperation(c.Request.Context(), "handler.verify_voter", nil)
	defer cleanup()

	voterID := c.PostForm("voterId")
	if voterID == "" {
		respondError(c, models.ErrVoterIDRequired)
		return
	}

	header, err := c.FormFile("idImage")
	if err != nil {
		respondError(c, models.ErrImageRequired)
		return
	}
	file, err := header.Open()
	if err != nil {
		respondError(c, models.NewInfrastructureError("open upload", err))
		return
	}
	defer file.Close()

	doc, err := h.uploads.Save(documents.CategoryVerification, header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	outcome, err := h.verifier.VerifyVoter(ctx, voterID, doc)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		h.discard(doc)
		respondError(c, err)
		return
	}
	// Only a parked case references the upload.
	if outcome.Layer != models.LayerAdmin {
		h.discard(doc)
	}

	utils.AddSpanAttribute(span, "verification.layer", int(outcome.Layer))
	utils.AddSpanAttribute(span, "verification.verified", outcome.Verified)
	c.JSON(http.StatusOK, outcome)
}

func (h *VerificationHandlers) discard(doc models.Document) {
	if err := h.uploads.Remove(doc); err != nil {
		observability.Logger().Warn("failed to remove verification upload",
			zap.String("filename", doc.Filename), zap.Error(err))
	}
}
