package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func nopLogger() *logging.SafeLogger {
	return logging.NewSafeLogger(zap.NewNop())
}

// recordingNotifier captures notifications.
type recordingNotifier struct {
	mu          sync.Mutex
	reviews     []string
	invalidated []models.InvalidVote
	err         error
}

func (n *recordingNotifier) ReviewRequested(_ context.Context, c *models.VerificationCase) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviews = append(n.reviews, c.CaseID)
	return n.err
}

func (n *recordingNotifier) VoteInvalidated(_ context.Context, vote *models.InvalidVote) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invalidated = append(n.invalidated, *vote)
	return n.err
}

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func seedVoter(t *testing.T, stores repository.Stores, voterID, docPath string) *models.Voter {
	t.Helper()
	voter := &models.Voter{
		VoterID:            voterID,
		Name:               "Voter " + voterID,
		IDDocument:         &models.Document{Filename: "original.jpg", Path: docPath, UploadedAt: time.Now().UTC()},
		VerificationStatus: models.VerificationPending,
		VoteStatus:         models.VoteNotVoted,
	}
	require.NoError(t, stores.Voters.Create(context.Background(), voter))
	return voter
}
