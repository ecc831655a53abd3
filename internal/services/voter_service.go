package services

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/securevote/app-verify/internal/documents"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// DocumentStore persists uploaded identity documents.
type DocumentStore interface {
	Save(category, originalName string, r io.Reader) (models.Document, error)
	Remove(doc models.Document) error
}

// VoterService registers voters together with their identity document.
type VoterService struct {
	voters    repository.VoterStore
	documents DocumentStore
	logger    *logging.SafeLogger
	now       func() time.Time
}

// NewVoterService creates the service.
func NewVoterService(voters repository.VoterStore, documents DocumentStore, logger *logging.SafeLogger) *VoterService {
	return &VoterService{
		voters:    voters,
		documents: documents,
		logger:    logger.Named("voters"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Register validates the form, stores the document under the registration
// category and creates the voter. The document is removed again when the voter
// cannot be created.
func (s *VoterService) Register(ctx context.Context, input models.VoterRegistrationInput, filename string, document io.Reader) (*models.Voter, error) {
	input.VoterID = strings.TrimSpace(input.VoterID)
	input.Name = strings.TrimSpace(input.Name)
	if err := utils.ValidateVoterRegistration(input).Err(); err != nil {
		return nil, err
	}
	if document == nil {
		return nil, models.ErrImageRequired
	}

	var phone *models.Phone
	if input.Phone != "" {
		parsed, err := utils.ParsePhoneNumber(input.Phone)
		if err != nil {
			return nil, models.NewValidationError("phone: %v", err)
		}
		phone = parsed
	}

	doc, err := s.documents.Save(documents.CategoryRegistration, filename, document)
	if err != nil {
		return nil, err
	}

	now := s.now()
	voter := &models.Voter{
		VoterID:            input.VoterID,
		Name:               input.Name,
		Phone:              phone,
		IDDocument:         &doc,
		VerificationStatus: models.VerificationPending,
		VoteStatus:         models.VoteNotVoted,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.voters.Create(ctx, voter); err != nil {
		if rmErr := s.documents.Remove(doc); rmErr != nil {
			s.logger.Warn("failed to remove orphaned registration document",
				zap.String("filename", doc.Filename), zap.Error(rmErr))
		}
		if !errors.Is(err, models.ErrVoterExists) {
			s.logger.Error("failed to create voter",
				zap.String("voter_id", observability.MaskVoterID(voter.VoterID)), zap.Error(err))
		}
		return nil, err
	}

	s.logger.Info("voter registered", zap.String("voter_id", observability.MaskVoterID(voter.VoterID)))
	return voter, nil
}

// Get returns a voter by id.
func (s *VoterService) Get(ctx context.Context, voterID string) (*models.Voter, error) {
	if err := utils.ValidateVoterID(voterID).Err(); err != nil {
		return nil, err
	}
	return s.voters.Find(ctx, voterID)
}
