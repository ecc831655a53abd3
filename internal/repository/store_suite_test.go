package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/securevote/app-verify/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestVoter(id string) *models.Voter {
	return &models.Voter{
		VoterID:            id,
		Name:               "Test Voter " + id,
		IDDocument:         &models.Document{Filename: id + ".jpg", Path: "/tmp/" + id + ".jpg", UploadedAt: time.Now().UTC()},
		VerificationStatus: models.VerificationPending,
		VoteStatus:         models.VoteNotVoted,
	}
}

func newTestCase(id, voterID string, createdAt time.Time) *models.VerificationCase {
	return &models.VerificationCase{
		CaseID:    id,
		VoterID:   voterID,
		Status:    models.CaseStatusPending,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
}

// runStoreSuite exercises behaviour every Stores implementation must share.
func runStoreSuite(t *testing.T, newStores func(t *testing.T) Stores) {
	t.Run("voters", func(t *testing.T) {
		ctx := context.Background()
		stores := newStores(t)

		require.NoError(t, stores.Voters.Create(ctx, newTestVoter("VOTER-1")))
		assert.ErrorIs(t, stores.Voters.Create(ctx, newTestVoter("VOTER-1")), models.ErrVoterExists)

		got, err := stores.Voters.Find(ctx, "VOTER-1")
		require.NoError(t, err)
		assert.Equal(t, "Test Voter VOTER-1", got.Name)
		assert.Equal(t, models.VoteNotVoted, got.VoteStatus)
		assert.False(t, got.CreatedAt.IsZero())

		_, err = stores.Voters.Find(ctx, "VOTER-404")
		assert.ErrorIs(t, err, models.ErrVoterNotFound)
		assert.ErrorIs(t, err, models.ErrNotFound)

		caseID := "CASE-A"
		status := models.VerificationPending
		require.NoError(t, stores.Voters.Update(ctx, "VOTER-1", models.VoterUpdate{
			VerificationStatus: &status,
			PendingIDCaseID:    &caseID,
		}))
		got, err = stores.Voters.Find(ctx, "VOTER-1")
		require.NoError(t, err)
		assert.Equal(t, "CASE-A", got.PendingIDCaseID)

		cleared := ""
		verified := models.VerificationVerified
		require.NoError(t, stores.Voters.Update(ctx, "VOTER-1", models.VoterUpdate{
			VerificationStatus: &verified,
			PendingIDCaseID:    &cleared,
		}))
		got, err = stores.Voters.Find(ctx, "VOTER-1")
		require.NoError(t, err)
		assert.Empty(t, got.PendingIDCaseID)
		assert.Equal(t, models.VerificationVerified, got.VerificationStatus)

		blocked := true
		assert.ErrorIs(t, stores.Voters.Update(ctx, "VOTER-404", models.VoterUpdate{IsBlocked: &blocked}), models.ErrVoterNotFound)
	})

	t.Run("cases", func(t *testing.T) {
		ctx := context.Background()
		stores := newStores(t)
		now := time.Now().UTC().Truncate(time.Millisecond)

		require.NoError(t, stores.Cases.Create(ctx, newTestCase("CASE-1", "VOTER-1", now)))
		assert.ErrorIs(t, stores.Cases.Create(ctx, newTestCase("CASE-2", "VOTER-1", now)), models.ErrCaseAlreadyOpen)

		pending, err := stores.Cases.FindPendingByVoter(ctx, "VOTER-1")
		require.NoError(t, err)
		assert.Equal(t, "CASE-1", pending.CaseID)

		review := models.AdminReview{ReviewerID: "admin-1", ReviewedAt: now, Decision: models.DecisionApproved}
		decided, err := stores.Cases.Decide(ctx, "CASE-1", models.CaseStatusApproved, review)
		require.NoError(t, err)
		assert.Equal(t, models.CaseStatusApproved, decided.Status)
		require.NotNil(t, decided.AdminReview)
		assert.Equal(t, "admin-1", decided.AdminReview.ReviewerID)

		_, err = stores.Cases.Decide(ctx, "CASE-1", models.CaseStatusRejected, review)
		assert.ErrorIs(t, err, models.ErrCaseAlreadyDecided)
		_, err = stores.Cases.Decide(ctx, "CASE-404", models.CaseStatusRejected, review)
		assert.ErrorIs(t, err, models.ErrCaseNotFound)

		_, err = stores.Cases.FindPendingByVoter(ctx, "VOTER-1")
		assert.ErrorIs(t, err, models.ErrCaseNotFound)

		// A decided case no longer blocks a new one
		require.NoError(t, stores.Cases.Create(ctx, newTestCase("CASE-2", "VOTER-1", now.Add(time.Second))))
	})

	t.Run("list and statistics", func(t *testing.T) {
		ctx := context.Background()
		stores := newStores(t)
		base := time.Now().UTC().Truncate(time.Millisecond)

		for i := 0; i < 5; i++ {
			c := newTestCase(fmt.Sprintf("CASE-%d", i), fmt.Sprintf("VOTER-%d", i), base.Add(time.Duration(i)*time.Minute))
			require.NoError(t, stores.Cases.Create(ctx, c))
		}
		review := models.AdminReview{ReviewerID: "admin", ReviewedAt: base, Decision: models.DecisionRejected, Reason: "blurry"}
		_, err := stores.Cases.Decide(ctx, "CASE-0", models.CaseStatusRejected, review)
		require.NoError(t, err)

		page, total, err := stores.Cases.List(ctx, models.CaseFilter{Page: 1, Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		require.Len(t, page, 2)
		assert.Equal(t, "CASE-4", page[0].CaseID)
		assert.Equal(t, "CASE-3", page[1].CaseID)

		page, total, err = stores.Cases.List(ctx, models.CaseFilter{Status: models.CaseStatusPending, Page: 2, Limit: 3})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		require.Len(t, page, 1)
		assert.Equal(t, "CASE-1", page[0].CaseID)

		page, _, err = stores.Cases.List(ctx, models.CaseFilter{Page: 10, Limit: 20})
		require.NoError(t, err)
		assert.Empty(t, page)

		stats, err := stores.Cases.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, models.CaseStatistics{Total: 5, Pending: 4, Rejected: 1}, stats)
	})

	t.Run("invalid votes", func(t *testing.T) {
		ctx := context.Background()
		stores := newStores(t)
		now := time.Now().UTC().Truncate(time.Millisecond)

		for i := 0; i < 2; i++ {
			require.NoError(t, stores.InvalidVotes.Create(ctx, &models.InvalidVote{
				VoterID:       "VOTER-1",
				CandidateID:   "CAND-1",
				ViolationType: models.ViolationMultipleFaces,
				Timestamp:     now.Add(time.Duration(i) * time.Second),
				EvidenceData:  models.ViolationEvidence{WarningCount: 2, PersonCount: 2, LastSeenAt: now},
			}))
		}
		votes, err := stores.InvalidVotes.ListByVoter(ctx, "VOTER-1")
		require.NoError(t, err)
		require.Len(t, votes, 2)
		assert.True(t, votes[0].Timestamp.After(votes[1].Timestamp))
		assert.Equal(t, 2, votes[0].EvidenceData.WarningCount)

		votes, err = stores.InvalidVotes.ListByVoter(ctx, "VOTER-2")
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		ctx := context.Background()
		stores := newStores(t)
		require.NoError(t, stores.Voters.Create(ctx, newTestVoter("VOTER-1")))
		require.NoError(t, stores.Cases.Create(ctx, newTestCase("CASE-1", "VOTER-1", time.Now().UTC())))

		boom := errors.New("boom")
		err := stores.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			review := models.AdminReview{ReviewerID: "admin", ReviewedAt: time.Now().UTC(), Decision: models.DecisionApproved}
			if _, err := stores.Cases.Decide(ctx, "CASE-1", models.CaseStatusApproved, review); err != nil {
				return err
			}
			verified := models.VerificationVerified
			if err := stores.Voters.Update(ctx, "VOTER-1", models.VoterUpdate{VerificationStatus: &verified}); err != nil {
				return err
			}
			return boom
		})
		require.ErrorIs(t, err, boom)

		c, err := stores.Cases.Find(ctx, "CASE-1")
		require.NoError(t, err)
		assert.Equal(t, models.CaseStatusPending, c.Status)
		v, err := stores.Voters.Find(ctx, "VOTER-1")
		require.NoError(t, err)
		assert.Equal(t, models.VerificationPending, v.VerificationStatus)
	})

	t.Run("transaction commits", func(t *testing.T) {
		ctx := context.Background()
		stores := newStores(t)
		require.NoError(t, stores.Voters.Create(ctx, newTestVoter("VOTER-1")))

		err := stores.Tx.WithTransaction(ctx, func(ctx context.Context) error {
			blocked := true
			return stores.Voters.Update(ctx, "VOTER-1", models.VoterUpdate{IsBlocked: &blocked})
		})
		require.NoError(t, err)

		v, err := stores.Voters.Find(ctx, "VOTER-1")
		require.NoError(t, err)
		assert.True(t, v.IsBlocked)
	})
}
