package services

import (
	"context"

	"github.com/securevote/app-verify/internal/models"
)

// Notifier publishes events other processes react to. Implementations must not
// block on slow consumers; a notification failure never fails the caller.
type Notifier interface {
	ReviewRequested(ctx context.Context, c *models.VerificationCase) error
	VoteInvalidated(ctx context.Context, vote *models.InvalidVote) error
}

// NopNotifier drops every notification.
type NopNotifier struct{}

func (NopNotifier) ReviewRequested(context.Context, *models.VerificationCase) error { return nil }

func (NopNotifier) VoteInvalidated(context.Context, *models.InvalidVote) error { return nil }
