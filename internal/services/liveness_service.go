package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/securevote/app-verify/internal/utils"
	"go.uber.org/zap"
)

// ErrMonitorRunning is returned when a session already has a monitor loop.
var ErrMonitorRunning = fmt.Errorf("monitor already running for session: %w", models.ErrInvalidState)

// ObservationSource yields one detection sample per call.
type ObservationSource interface {
	Next(ctx context.Context) (models.Observation, error)
}

// ObservationSourceFunc adapts a function to ObservationSource.
type ObservationSourceFunc func(ctx context.Context) (models.Observation, error)

// Next calls f.
func (f ObservationSourceFunc) Next(ctx context.Context) (models.Observation, error) {
	return f(ctx)
}

// livenessSession is the per-voter state of an active voting session.
type livenessSession struct {
	info         models.LivenessSession
	detector     *PatternDetector
	fraudFlagged bool
	stopMonitor  context.CancelFunc
}

// LivenessService owns voting sessions and feeds their observations to the
// pattern detector and the warning tracker. Observations of one voter are
// processed one at a time.
type LivenessService struct {
	mu       sync.Mutex
	sessions map[string]*livenessSession

	voters   repository.VoterStore
	tracker  *WarningTracker
	patterns PatternConfig
	locks    *KeyedMutex
	logger   *logging.SafeLogger
	now      func() time.Time
}

// NewLivenessService creates the service.
func NewLivenessService(voters repository.VoterStore, tracker *WarningTracker, patterns PatternConfig, locks *KeyedMutex, logger *logging.SafeLogger) *LivenessService {
	return &LivenessService{
		sessions: make(map[string]*livenessSession),
		voters:   voters,
		tracker:  tracker,
		patterns: patterns,
		locks:    locks,
		logger:   logger.Named("liveness"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// StartSession opens a session for the voter. An already active session is returned as is.
func (s *LivenessService) StartSession(ctx context.Context, req models.StartSessionRequest) (*models.LivenessSession, error) {
	if req.VoterID == "" {
		return nil, models.ErrVoterIDRequired
	}
	voter, err := s.voters.Find(ctx, req.VoterID)
	if err != nil {
		return nil, err
	}
	if voter.IsBlocked {
		return nil, models.ErrVoterBlocked
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.sessions[req.VoterID]; ok {
		info := existing.info
		return &info, nil
	}

	sess := &livenessSession{
		info: models.LivenessSession{
			VoterID:     req.VoterID,
			CandidateID: req.CandidateID,
			StartedAt:   s.now(),
			Active:      true,
		},
		detector: NewPatternDetector(s.patterns),
	}
	s.sessions[req.VoterID] = sess
	observability.ActiveSessions.Inc()

	s.logger.Info("liveness session started",
		zap.String("voter_id", observability.MaskVoterID(req.VoterID)))
	info := sess.info
	return &info, nil
}

// EndSession closes the session and stops its monitor loop.
func (s *LivenessService) EndSession(_ context.Context, voterID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[voterID]
	var stop context.CancelFunc
	if ok {
		delete(s.sessions, voterID)
		stop = sess.stopMonitor
	}
	s.mu.Unlock()

	if !ok {
		return models.ErrSessionNotFound
	}
	if stop != nil {
		stop()
	}
	observability.ActiveSessions.Dec()
	s.logger.Info("liveness session ended",
		zap.String("voter_id", observability.MaskVoterID(voterID)))
	return nil
}

// GetSession returns the active session of a voter.
func (s *LivenessService) GetSession(voterID string) (*models.LivenessSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[voterID]
	if !ok {
		return nil, models.ErrSessionNotFound
	}
	info := sess.info
	return &info, nil
}

func (s *LivenessService) session(voterID string) (*livenessSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[voterID]
	return sess, ok
}

// Observe processes one detection sample of an active session.
func (s *LivenessService) Observe(ctx context.Context, obs models.Observation) (*models.ObservationResult, error) {
	if err := obs.Validate(); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(obs.VoterID)
	defer unlock()

	sess, ok := s.session(obs.VoterID)
	if !ok {
		return nil, models.ErrSessionNotFound
	}

	ctx, span, cleanup := utils.TraceOperation(ctx, "liveness.observe", map[string]interface{}{
		"voter.id":     observability.MaskVoterID(obs.VoterID),
		"person.count": obs.PersonCount,
		"voice.count":  obs.VoiceCount,
	})
	defer cleanup()

	// Client clocks may run ahead; a future sample would stall the analysis interval.
	if now := s.now(); obs.Timestamp.IsZero() || obs.Timestamp.After(now) {
		obs.Timestamp = now
	}
	if obs.CandidateID == "" {
		obs.CandidateID = sess.info.CandidateID
	}

	report := sess.detector.Observe(obs)
	if report.FraudDetected && !sess.fraudFlagged {
		observability.FraudFlags.Inc()
		s.logger.Warn("suspicious liveness pattern",
			zap.String("voter_id", observability.MaskVoterID(obs.VoterID)),
			zap.Float64("suspicious_patterns", report.SuspiciousPatterns),
			zap.Int("suspicious_score", report.SuspiciousScore))
	}
	if report.Analyzed {
		sess.fraudFlagged = report.FraudDetected
	}

	warning, err := s.tracker.Record(ctx, obs)
	if err != nil {
		utils.RecordErrorInSpan(span, err, nil)
		return nil, err
	}

	return &models.ObservationResult{
		VoterID:  obs.VoterID,
		Pattern:  report,
		Warning:  warning,
		Accepted: !warning.Invalidated,
	}, nil
}

// RunMonitor polls source every interval and feeds the samples to Observe
// until ctx is cancelled or the session ends. Source errors count as no data.
func (s *LivenessService) RunMonitor(ctx context.Context, voterID string, source ObservationSource, interval time.Duration) error {
	if interval <= 0 {
		return models.NewValidationError("monitor interval must be positive")
	}

	mctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.mu.Lock()
	sess, ok := s.sessions[voterID]
	if !ok {
		s.mu.Unlock()
		return models.ErrSessionNotFound
	}
	if sess.stopMonitor != nil {
		s.mu.Unlock()
		return ErrMonitorRunning
	}
	sess.stopMonitor = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if current, ok := s.sessions[voterID]; ok && current == sess {
			sess.stopMonitor = nil
		}
		s.mu.Unlock()
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-mctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		obs, err := source.Next(mctx)
		if err != nil {
			if mctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Debug("no detection data",
				zap.String("voter_id", observability.MaskVoterID(voterID)),
				zap.Error(err))
			continue
		}
		obs.VoterID = voterID

		result, err := s.Observe(mctx, obs)
		switch {
		case errors.Is(err, models.ErrSessionNotFound):
			return nil
		case errors.Is(err, models.ErrValidation):
			s.logger.Debug("discarding invalid observation", zap.Error(err))
		case err != nil:
			s.logger.Error("failed to process observation",
				zap.String("voter_id", observability.MaskVoterID(voterID)),
				zap.Error(err))
		case result.Warning.Invalidated:
			return nil
		}
	}
}

// ActiveSessions returns the number of open sessions.
func (s *LivenessService) ActiveSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
