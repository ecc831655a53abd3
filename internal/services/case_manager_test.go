package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupCaseManager(t *testing.T) (*CaseManager, repository.Stores, *recordingNotifier) {
	t.Helper()
	stores := repository.NewMemory().Stores()
	notifier := &recordingNotifier{}
	return NewCaseManager(stores, NewKeyedMutex(), notifier, nopLogger()), stores, notifier
}

func createTestCase(t *testing.T, m *CaseManager, voterID string) *models.VerificationCase {
	t.Helper()
	c, err := m.CreateCase(context.Background(), CaseInput{
		VoterID:          voterID,
		OriginalDocument: models.Document{Filename: "a.jpg", Path: "/docs/a.jpg"},
		Step2Document:    models.Document{Filename: "b.jpg", Path: "/docs/b.jpg"},
		OCRResults: models.OCRResults{
			NationalID: models.OCRAttempt{Step1Number: "123456789012", Step2Number: "999988887777"},
		},
		ImageComparison: models.ImageComparisonSummary{Similarity: 42.19, MatchMethod: models.MatchPerceptual},
	})
	require.NoError(t, err)
	return c
}

func TestCaseManager_CreateCase(t *testing.T) {
	m, stores, notifier := setupCaseManager(t)
	ctx := context.Background()
	seedVoter(t, stores, "VOTER-1", "/docs/a.jpg")

	c := createTestCase(t, m, "VOTER-1")
	assert.True(t, strings.HasPrefix(c.CaseID, "CASE-"))
	assert.Equal(t, models.CaseStatusPending, c.Status)
	assert.Nil(t, c.AdminReview)
	assert.Equal(t, "999988887777", c.OCRResults.NationalID.Step2Number)

	voter, err := stores.Voters.Find(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, c.CaseID, voter.PendingIDCaseID)
	assert.Equal(t, models.VerificationPending, voter.VerificationStatus)
	assert.Equal(t, []string{c.CaseID}, notifier.reviews)

	_, err = m.CreateCase(ctx, CaseInput{VoterID: "VOTER-1"})
	assert.ErrorIs(t, err, models.ErrCaseAlreadyOpen)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = m.CreateCase(ctx, CaseInput{VoterID: "VOTER-404"})
	assert.ErrorIs(t, err, models.ErrVoterNotFound)

	_, err = m.CreateCase(ctx, CaseInput{})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCaseManager_Approve(t *testing.T) {
	m, stores, _ := setupCaseManager(t)
	ctx := context.Background()
	seedVoter(t, stores, "VOTER-1", "/docs/a.jpg")
	c := createTestCase(t, m, "VOTER-1")

	result, err := m.Approve(ctx, c.CaseID, "admin-7", "documents match on inspection")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, result.VerificationStatus)
	assert.Equal(t, models.CaseStatusApproved, result.Case.Status)
	require.NotNil(t, result.Case.AdminReview)
	assert.Equal(t, "admin-7", result.Case.AdminReview.ReviewerID)
	assert.Equal(t, models.DecisionApproved, result.Case.AdminReview.Decision)
	assert.False(t, result.Case.AdminReview.ReviewedAt.IsZero())

	voter, err := stores.Voters.Find(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationVerified, voter.VerificationStatus)
	assert.Empty(t, voter.PendingIDCaseID)
}

func TestCaseManager_Reject(t *testing.T) {
	m, stores, _ := setupCaseManager(t)
	ctx := context.Background()
	seedVoter(t, stores, "VOTER-1", "/docs/a.jpg")
	c := createTestCase(t, m, "VOTER-1")

	_, err := m.Reject(ctx, c.CaseID, "admin-7", "   ")
	assert.ErrorIs(t, err, models.ErrReasonRequired)
	assert.ErrorIs(t, err, models.ErrValidation)

	stored, err := m.GetCase(ctx, c.CaseID)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatusPending, stored.Status)

	result, err := m.Reject(ctx, c.CaseID, "admin-7", "different person")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, result.VerificationStatus)
	assert.Equal(t, "different person", result.Case.AdminReview.Reason)

	voter, err := stores.Voters.Find(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, voter.VerificationStatus)
	assert.Empty(t, voter.PendingIDCaseID)
}

func TestCaseManager_DecidedCaseIsFinal(t *testing.T) {
	m, stores, _ := setupCaseManager(t)
	ctx := context.Background()
	seedVoter(t, stores, "VOTER-1", "/docs/a.jpg")
	c := createTestCase(t, m, "VOTER-1")

	_, err := m.Reject(ctx, c.CaseID, "admin-1", "blurry")
	require.NoError(t, err)

	_, err = m.Approve(ctx, c.CaseID, "admin-2", "")
	assert.ErrorIs(t, err, models.ErrCaseAlreadyDecided)
	assert.ErrorIs(t, err, models.ErrInvalidState)

	_, err = m.Reject(ctx, c.CaseID, "admin-2", "again")
	assert.ErrorIs(t, err, models.ErrInvalidState)

	voter, err := stores.Voters.Find(ctx, "VOTER-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationRejected, voter.VerificationStatus)
}

func TestCaseManager_ConcurrentDecisions(t *testing.T) {
	m, stores, _ := setupCaseManager(t)
	seedVoter(t, stores, "VOTER-1", "/docs/a.jpg")
	c := createTestCase(t, m, "VOTER-1")

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			var err error
			if i%2 == 0 {
				_, err = m.Approve(context.Background(), c.CaseID, "admin", "")
			} else {
				_, err = m.Reject(context.Background(), c.CaseID, "admin", "no")
			}
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, models.ErrCaseAlreadyDecided)
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)

	stored, err := m.GetCase(context.Background(), c.CaseID)
	require.NoError(t, err)
	voter, err := stores.Voters.Find(context.Background(), "VOTER-1")
	require.NoError(t, err)
	if stored.Status == models.CaseStatusApproved {
		assert.Equal(t, models.VerificationVerified, voter.VerificationStatus)
	} else {
		assert.Equal(t, models.VerificationRejected, voter.VerificationStatus)
	}
}

func TestCaseManager_NotFound(t *testing.T) {
	m, _, _ := setupCaseManager(t)

	_, err := m.Approve(context.Background(), "CASE-404", "admin", "")
	assert.ErrorIs(t, err, models.ErrCaseNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = m.Approve(context.Background(), "", "admin", "")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCaseManager_ListAndStatistics(t *testing.T) {
	m, stores, _ := setupCaseManager(t)
	ctx := context.Background()

	var cases []*models.VerificationCase
	for _, id := range []string{"VOTER-1", "VOTER-2", "VOTER-3"} {
		seedVoter(t, stores, id, "/docs/"+id+".jpg")
		cases = append(cases, createTestCase(t, m, id))
	}
	_, err := m.Approve(ctx, cases[0].CaseID, "admin", "")
	require.NoError(t, err)
	_, err = m.Reject(ctx, cases[1].CaseID, "admin", "mismatch")
	require.NoError(t, err)

	stats, err := m.GetStatistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.CaseStatistics{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, stats)

	page, err := m.ListCases(ctx, models.CaseFilter{Status: models.CaseStatusPending})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.Limit)
	require.Len(t, page.Cases, 1)
	assert.Equal(t, cases[2].CaseID, page.Cases[0].CaseID)

	_, err = m.ListCases(ctx, models.CaseFilter{Status: "archived"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCaseManager_NotifierFailureDoesNotFailCreate(t *testing.T) {
	stores := repository.NewMemory().Stores()
	notifier := &recordingNotifier{err: assert.AnError}
	m := NewCaseManager(stores, NewKeyedMutex(), notifier, nopLogger())
	seedVoter(t, stores, "VOTER-1", "/docs/a.jpg")

	c := createTestCase(t, m, "VOTER-1")
	assert.NotEmpty(t, c.CaseID)
}
