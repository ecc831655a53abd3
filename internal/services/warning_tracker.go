package services

import (
	"context"
	"fmt"
	"time"

	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/repository"
	"go.uber.org/zap"
)

// WarningConfig tunes the warning tracker.
type WarningConfig struct {
	MaxWarnings int
	IdlePeriod  time.Duration
}

// DefaultWarningConfig returns the production defaults.
func DefaultWarningConfig() WarningConfig {
	return WarningConfig{MaxWarnings: 2, IdlePeriod: 5 * time.Minute}
}

// WarningTracker counts multi-person and multi-voice observations per voter and
// invalidates the vote once the count reaches MaxWarnings. It keeps no state
// of its own; callers serialize calls per voter.
type WarningTracker struct {
	store    WarningStore
	stores   repository.Stores
	notifier Notifier
	cfg      WarningConfig
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewWarningTracker creates a tracker.
func NewWarningTracker(store WarningStore, stores repository.Stores, notifier Notifier, cfg WarningConfig, logger *logging.SafeLogger) *WarningTracker {
	defaults := DefaultWarningConfig()
	if cfg.MaxWarnings < 1 {
		cfg.MaxWarnings = defaults.MaxWarnings
	}
	if cfg.IdlePeriod <= 0 {
		cfg.IdlePeriod = defaults.IdlePeriod
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &WarningTracker{
		store:    store,
		stores:   stores,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger.Named("warning_tracker"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// ClassifyViolation returns the violation an observation shows, if any.
func ClassifyViolation(obs models.Observation) (models.ViolationType, bool) {
	switch {
	case obs.Count() > 1:
		return models.ViolationMultipleFaces, true
	case obs.VoiceCount > 1:
		return models.ViolationMultipleVoices, true
	}
	return "", false
}

// Record applies one observation to the voter's warning state.
func (t *WarningTracker) Record(ctx context.Context, obs models.Observation) (models.WarningResult, error) {
	result := models.WarningResult{MaxWarnings: t.cfg.MaxWarnings}
	now := t.now()

	entry, err := t.store.Get(ctx, obs.VoterID)
	if err != nil {
		return result, err
	}
	if entry != nil && now.Sub(entry.LastWarningAt) >= t.cfg.IdlePeriod {
		if err := t.store.Delete(ctx, obs.VoterID); err != nil {
			return result, err
		}
		entry = nil
		result.Reset = true
	}

	violation, ok := ClassifyViolation(obs)

	// A blocked voter stays invalidated whatever the frame shows.
	voter, err := t.stores.Voters.Find(ctx, obs.VoterID)
	if err != nil {
		return result, err
	}
	if voter.IsBlocked {
		result.Warned = ok
		result.ViolationType = violation
		result.Invalidated = true
		result.AlreadyBlocked = true
		result.Count = t.cfg.MaxWarnings
		return result, nil
	}

	if !ok {
		if entry != nil {
			result.Count = entry.Count
		}
		return result, nil
	}
	result.Warned = true
	result.ViolationType = violation

	if entry == nil {
		entry = &models.WarningEntry{FirstWarningAt: now}
	}
	entry.Count++
	entry.LastWarningAt = now
	entry.LastViolation = violation
	if obs.CandidateID != "" {
		entry.CandidateID = obs.CandidateID
	}
	result.Count = entry.Count
	result.Reset = false

	observability.LivenessWarnings.WithLabelValues(string(violation)).Inc()
	t.logger.Warn("liveness warning",
		zap.String("voter_id", observability.MaskVoterID(obs.VoterID)),
		zap.String("violation_type", string(violation)),
		zap.Int("count", entry.Count),
		zap.Int("max_warnings", t.cfg.MaxWarnings))

	if entry.Count < t.cfg.MaxWarnings {
		if err := t.store.Put(ctx, obs.VoterID, *entry, t.cfg.IdlePeriod); err != nil {
			return result, err
		}
		return result, nil
	}

	vote, err := t.invalidate(ctx, obs, *entry)
	if err != nil {
		return result, err
	}
	result.Invalidated = true
	result.InvalidVote = vote
	return result, nil
}

// invalidate persists the invalid vote and blocks the voter in one transaction.
func (t *WarningTracker) invalidate(ctx context.Context, obs models.Observation, entry models.WarningEntry) (*models.InvalidVote, error) {
	vote := &models.InvalidVote{
		VoterID:          obs.VoterID,
		CandidateID:      entry.CandidateID,
		ViolationType:    entry.LastViolation,
		ViolationDetails: violationDetails(entry, obs),
		Timestamp:        entry.LastWarningAt,
		EvidenceData: models.ViolationEvidence{
			WarningCount: entry.Count,
			PersonCount:  obs.PersonCount,
			FaceCount:    obs.FaceCount,
			VoiceCount:   obs.VoiceCount,
			FirstSeenAt:  entry.FirstWarningAt,
			LastSeenAt:   entry.LastWarningAt,
		},
	}

	err := t.stores.Tx.WithTransaction(ctx, func(ctx context.Context) error {
		if err := t.stores.InvalidVotes.Create(ctx, vote); err != nil {
			return err
		}
		counted := models.VoteCounted
		blocked := true
		return t.stores.Voters.Update(ctx, obs.VoterID, models.VoterUpdate{
			VoteStatus: &counted,
			IsBlocked:  &blocked,
		})
	})
	if err != nil {
		t.logger.Error("failed to invalidate vote",
			zap.String("voter_id", observability.MaskVoterID(obs.VoterID)),
			zap.Error(err))
		return nil, err
	}

	if err := t.store.Delete(ctx, obs.VoterID); err != nil {
		t.logger.Warn("failed to clear warning entry", zap.Error(err))
	}

	observability.InvalidatedVotes.WithLabelValues(string(vote.ViolationType)).Inc()
	t.logger.Warn("vote invalidated",
		zap.String("voter_id", observability.MaskVoterID(vote.VoterID)),
		zap.String("violation_type", string(vote.ViolationType)),
		zap.Int("warning_count", entry.Count))

	if err := t.notifier.VoteInvalidated(ctx, vote); err != nil {
		t.logger.Warn("failed to publish vote invalidation", zap.Error(err))
	}
	return vote, nil
}

func violationDetails(entry models.WarningEntry, obs models.Observation) string {
	switch entry.LastViolation {
	case models.ViolationMultipleVoices:
		return fmt.Sprintf("%d warnings; %d voices detected", entry.Count, obs.VoiceCount)
	default:
		return fmt.Sprintf("%d warnings; %d persons detected", entry.Count, obs.Count())
	}
}
