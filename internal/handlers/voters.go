package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/services"
)

// VoterHandlers serves voter registration and lookup
type VoterHandlers struct {
	voters *services.VoterService
}

// NewVoterHandlers creates a new voter handlers instance
func NewVoterHandlers(voters *services.VoterService) *VoterHandlers {
	return &VoterHandlers{voters: voters}
}

// RegisterVoter godoc
// @Summary Register a voter
// @Description Creates a voter together with the identity document used at verification time
// @Tags voters
// @Accept multipart/form-data
// @Produce json
// @Param voterId formData string true "Voter ID"
// @Param name formData string true "Full name"
// @Param phone formData string false "Contact phone"
// @Param idDocument formData file true "Identity document (PNG or JPEG)"
// @Success 201 {object} models.VoterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Voter already registered"
// @Failure 500 {object} ErrorResponse
// @Router /voters [post]
func (h *VoterHandlers) RegisterVoter(c *gin.Context) {
	var input models.VoterRegistrationInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid form: " + err.Error()})
		return
	}

	header, err := c.FormFile("idDocument")
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

	voter, err := h.voters.Register(c.Request.Context(), input, header.Filename, file)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, voter.ToResponse())
}

// GetVoter godoc
// @Summary Get a voter
// @Description Returns the verification and vote state of a voter
// @Tags voters
// @Produce json
// @Param voterId path string true "Voter ID"
// @Success 200 {object} models.VoterResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /voters/{voterId} [get]
func (h *VoterHandlers) GetVoter(c *gin.Context) {
	voter, err := h.voters.Get(c.Request.Context(), c.Param("voterId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, voter.ToResponse())
}
