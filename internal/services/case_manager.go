package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// CaseInput is everything the manual review needs to see.
type CaseInput struct {
	VoterID          string
	OriginalDocument models.Document
	Step2Document    models.Document
	OCRResults       models.OCRResults
	ImageComparison  models.ImageComparisonSummary
}

// CaseManager owns the verification case lifecycle. Case and voter writes for
// one decision happen in a single transaction while the voter's lock is held.
type CaseManager struct {
	stores   repository.Stores
	locks    *KeyedMutex
	notifier Notifier
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewCaseManager creates a case manager. locks must be shared with every other
// component that mutates voters.
func NewCaseManager(stores repository.Stores, locks *KeyedMutex, notifier Notifier, logger *logging.SafeLogger) *CaseManager {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &CaseManager{
		stores:   stores,
		locks:    locks,
		notifier: notifier,
		logger:   logger.Named("case_manager"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// NewCaseID returns a sortable unique case id.
func NewCaseID() string {
	return "CASE-" + ulid.Make().String()
}

// CreateCase parks a voter for manual review and points the voter at the case.
// It fails with ErrCaseAlreadyOpen when the voter already has a pending case.
func (m *CaseManager) CreateCase(ctx context.Context, input CaseInput) (*models.VerificationCase, error) {
	if input.VoterID == "" {
		return nil, models.ErrVoterIDRequired
	}

	unlock := m.locks.Lock(input.VoterID)
	defer unlock()

	ctx, span, cleanup := utils.TraceOperation(ctx, "case_manager.create", map[string]interface{}{
		"voter.id": observability.MaskVoterID(input.VoterID),
	})
	defer cleanup()

	now := m.now()
	c := &models.VerificationCase{
		CaseID:             NewCaseID(),
		VoterID:            input.VoterID,
		Status:             models.CaseStatusPending,
		OriginalIDDocument: input.OriginalDocument,
		Step2IDDocument:    input.Step2Document,
		OCRResults:         input.OCRResults,
		ImageComparison:    input.ImageComparison,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := m.stores.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		voter, err := m.stores.Voters.Find(ctx, input.VoterID)
		if err != nil {
			return err
		}
		if voter.HasOpenCase() {
			return models.ErrCaseAlreadyOpen
		}
		if err := m.stores.Cases.Create(ctx, c); err != nil {
			return err
		}
		pending := models.VerificationPending
		return m.stores.Voters.Update(ctx, input.VoterID, models.VoterUpdate{
			VerificationStatus: &pending,
			PendingIDCaseID:    &c.CaseID,
		})
	})
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}

	observability.PendingCases.Inc()
	utils.AddSpanAttribute(span, "case.id", c.CaseID)
	m.logger.Info("verification case created",
		zap.String("case_id", c.CaseID),
		zap.String("voter_id", observability.MaskVoterID(c.VoterID)))

	if err := m.notifier.ReviewRequested(ctx, c); err != nil {
		m.logger.Warn("failed to publish review request",
			zap.String("case_id", c.CaseID),
			zap.Error(err))
	}
	return c, nil
}

// Approve marks a pending case approved and the voter verified.
func (m *CaseManager) Approve(ctx context.Context, caseID, adminID, reason string) (*models.CaseDecisionResult, error) {
	return m.decide(ctx, caseID, adminID, reason, models.DecisionApproved)
}

// Reject marks a pending case rejected and the voter rejected. reason is mandatory.
func (m *CaseManager) Reject(ctx context.Context, caseID, adminID, reason string) (*models.CaseDecisionResult, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, models.ErrReasonRequired
	}
	return m.decide(ctx, caseID, adminID, reason, models.DecisionRejected)
}

func (m *CaseManager) decide(ctx context.Context, caseID, adminID, reason string, decision models.ReviewDecision) (*models.CaseDecisionResult, error) {
	if err := utils.ValidateCaseDecision(decision, reason).Err(); err != nil {
		return nil, err
	}
	if caseID == "" {
		return nil, models.NewValidationError("caseId is required")
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "case_manager.decide", map[string]interface{}{
		"case.id":       caseID,
		"case.decision": string(decision),
	})
	defer cleanup()

	existing, err := m.stores.Cases.Find(ctx, caseID)
	if err != nil {
		return nil, err
	}

	unlock := m.locks.Lock(existing.VoterID)
	defer unlock()

	caseStatus, voterStatus := models.CaseStatusApproved, models.VerificationVerified
	if decision == models.DecisionRejected {
		caseStatus, voterStatus = models.CaseStatusRejected, models.VerificationRejected
	}
	review := models.AdminReview{
		ReviewerID: adminID,
		ReviewedAt: m.now(),
		Decision:   decision,
		Reason:     strings.TrimSpace(reason),
	}

	var decided *models.VerificationCase
	err = m.stores.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		decided, err = m.stores.Cases.Decide(ctx, caseID, caseStatus, review)
		if err != nil {
			return err
		}
		cleared := ""
		return m.stores.Voters.Update(ctx, decided.VoterID, models.VoterUpdate{
			VerificationStatus: &voterStatus,
			PendingIDCaseID:    &cleared,
		})
	})
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		if !errors.Is(err, models.ErrInvalidState) {
			m.logger.Error("case decision failed",
				zap.String("case_id", caseID),
				zap.String("decision", string(decision)),
				zap.Error(err))
		}
		return nil, err
	}

	observability.CaseDecisions.WithLabelValues(string(decision)).Inc()
	observability.PendingCases.Dec()
	m.logger.Info("verification case decided",
		zap.String("case_id", caseID),
		zap.String("decision", string(decision)),
		zap.String("reviewer_id", adminID),
		zap.String("voter_id", observability.MaskVoterID(decided.VoterID)))

	return &models.CaseDecisionResult{
		Case:               decided,
		VoterID:            decided.VoterID,
		VerificationStatus: voterStatus,
	}, nil
}

// GetCase returns one case.
func (m *CaseManager) GetCase(ctx context.Context, caseID string) (*models.VerificationCase, error) {
	return m.stores.Cases.Find(ctx, caseID)
}

// ListCases returns a page of cases, newest first.
func (m *CaseManager) ListCases(ctx context.Context, filter models.CaseFilter) (*models.CaseListResponse, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, models.NewValidationError("unknown case status %q", filter.Status)
	}
	filter.Normalize()

	cases, total, err := m.stores.Cases.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &models.CaseListResponse{
		Cases: cases,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// GetStatistics counts cases per status.
func (m *CaseManager) GetStatistics(ctx context.Context) (models.CaseStatistics, error) {
	stats, err := m.stores.Cases.Statistics(ctx)
	if err != nil {
		return models.CaseStatistics{}, err
	}
	observability.PendingCases.Set(float64(stats.Pending))
	return stats, nil
}

// InvalidVotes lists the invalidation records of a voter.
func (m *CaseManager) InvalidVotes(ctx context.Context, voterID string) ([]models.InvalidVote, error) {
	if voterID == "" {
		return nil, models.ErrVoterIDRequired
	}
	return m.stores.InvalidVotes.ListByVoter(ctx, voterID)
}
