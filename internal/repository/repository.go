// Package repository persists voters, verification cases and invalid votes.
package repository

import (
	"context"

	"github.com/securevote/app-verify/internal/models"
)

// VoterStore persists voters.
type VoterStore interface {
	Create(ctx context.Context, voter *models.Voter) error
	Find(ctx context.Context, voterID string) (*models.Voter, error)
	Update(ctx context.Context, voterID string, update models.VoterUpdate) error
}

// CaseStore persists verification cases. Decide only succeeds on a pending case.
type CaseStore interface {
	Create(ctx context.Context, c *models.VerificationCase) error
	Find(ctx context.Context, caseID string) (*models.VerificationCase, error)
	FindPendingByVoter(ctx context.Context, voterID string) (*models.VerificationCase, error)
	Decide(ctx context.Context, caseID string, status models.CaseStatus, review models.AdminReview) (*models.VerificationCase, error)
	List(ctx context.Context, filter models.CaseFilter) ([]models.VerificationCase, int64, error)
	Statistics(ctx context.Context) (models.CaseStatistics, error)
}

// InvalidVoteStore is append-only.
type InvalidVoteStore interface {
	Create(ctx context.Context, vote *models.InvalidVote) error
	ListByVoter(ctx context.Context, voterID string) ([]models.InvalidVote, error)
}

// Transactor runs fn so that all store calls made with the context it receives
// commit or roll back together.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Stores groups the stores backed by one database.
type Stores struct {
	Voters       VoterStore
	Cases        CaseStore
	InvalidVotes InvalidVoteStore
	Tx           Transactor
}
