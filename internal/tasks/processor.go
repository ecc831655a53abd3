package tasks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/repository"
	"go.uber.org/zap"
)

// Processor handles tasks on the worker side.
type Processor struct {
	cases        repository.CaseStore
	invalidVotes repository.InvalidVoteStore
	logger       *logging.SafeLogger
}

// NewProcessor creates a processor reading from stores.
func NewProcessor(stores repository.Stores, logger *logging.SafeLogger) *Processor {
	return &Processor{
		cases:        stores.Cases,
		invalidVotes: stores.InvalidVotes,
		logger:       logger.Named("worker"),
	}
}

// ServeMux routes every task type to its handler.
func (p *Processor) ServeMux() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeReviewRequested, p.HandleReviewRequested)
	mux.HandleFunc(TypeVoteInvalidated, p.HandleVoteInvalidated)
	return mux
}

// HandleReviewRequested records a case entering the admin queue and refreshes
// the pending gauge. Cases decided before the task ran are skipped.
func (p *Processor) HandleReviewRequested(ctx context.Context, t *asynq.Task) (err error) {
	defer func() { record(t.Type(), err) }()

	var payload ReviewRequestedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid review payload: %v: %w", err, asynq.SkipRetry)
	}

	c, err := p.cases.Find(ctx, payload.CaseID)
	if errors.Is(err, models.ErrCaseNotFound) {
		return fmt.Errorf("case %s: %v: %w", payload.CaseID, err, asynq.SkipRetry)
	}
	if err != nil {
		return err
	}
	if c.IsDecided() {
		p.logger.Debug("case decided before review notification",
			zap.String("case_id", c.CaseID),
			zap.String("status", string(c.Status)))
		return nil
	}

	stats, err := p.cases.Statistics(ctx)
	if err != nil {
		return err
	}
	observability.PendingCases.Set(float64(stats.Pending))

	p.logger.Info("verification case awaiting review",
		zap.String("case_id", c.CaseID),
		zap.String("voter_id", observability.MaskVoterID(c.VoterID)),
		zap.Bool("national_id_matched", c.OCRResults.NationalID.Matched),
		zap.Bool("voter_id_matched", c.OCRResults.VoterID.Matched),
		zap.Float64("similarity", c.ImageComparison.Similarity),
		zap.Int64("pending_cases", stats.Pending))
	return nil
}

// HandleVoteInvalidated writes the audit line for an invalidated vote once the
// record is visible in the store.
func (p *Processor) HandleVoteInvalidated(ctx context.Context, t *asynq.Task) (err error) {
	defer func() { record(t.Type(), err) }()

	var payload VoteInvalidatedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("invalid invalidation payload: %v: %w", err, asynq.SkipRetry)
	}

	votes, err := p.invalidVotes.ListByVoter(ctx, payload.VoterID)
	if err != nil {
		return err
	}
	if len(votes) == 0 {
		return fmt.Errorf("no invalid vote recorded for voter %s", observability.MaskVoterID(payload.VoterID))
	}

	latest := votes[0]
	p.logger.Warn("vote invalidated",
		zap.String("voter_id", observability.MaskVoterID(latest.VoterID)),
		zap.String("candidate_id", latest.CandidateID),
		zap.String("violation_type", string(latest.ViolationType)),
		zap.String("details", latest.ViolationDetails),
		zap.Int("warning_count", latest.EvidenceData.WarningCount),
		zap.Int("records", len(votes)))
	return nil
}

func record(taskType string, err error) {
	status := "success"
	switch {
	case errors.Is(err, asynq.SkipRetry):
		status = "skipped"
	case err != nil:
		status = "error"
	}
	observability.TasksProcessed.WithLabelValues(taskType, status).Inc()
}
