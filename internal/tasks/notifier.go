package tasks

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/securevote/app-verify/internal/logging"
	"github.com/securevote/app-verify/internal/models"
	"github.com/securevote/app-verify/internal/observability"
	"go.uber.org/zap"
)

// Enqueuer is the part of *asynq.Client the notifier needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Notifier publishes case and invalidation events as asynq tasks.
type Notifier struct {
	client Enqueuer
	logger *logging.SafeLogger
}

// NewNotifier creates a notifier backed by client.
func NewNotifier(client Enqueuer, logger *logging.SafeLogger) *Notifier {
	return &Notifier{client: client, logger: logger.Named("tasks")}
}

// ReviewRequested enqueues a review notification for c.
func (n *Notifier) ReviewRequested(ctx context.Context, c *models.VerificationCase) error {
	task, err := NewReviewRequestedTask(c)
	if err != nil {
		return err
	}
	return n.enqueue(ctx, task, zap.String("case_id", c.CaseID))
}

// VoteInvalidated enqueues an invalidation notification for vote.
func (n *Notifier) VoteInvalidated(ctx context.Context, vote *models.InvalidVote) error {
	task, err := NewVoteInvalidatedTask(vote)
	if err != nil {
		return err
	}
	return n.enqueue(ctx, task, zap.String("voter_id", observability.MaskVoterID(vote.VoterID)))
}

func (n *Notifier) enqueue(ctx context.Context, task *asynq.Task, fields ...zap.Field) error {
	info, err := n.client.EnqueueContext(ctx, task)
	if errors.Is(err, asynq.ErrTaskIDConflict) {
		n.logger.Debug("task already enqueued", append(fields, zap.String("type", task.Type()))...)
		return nil
	}
	if err != nil {
		observability.TaskEnqueueFailures.WithLabelValues(task.Type()).Inc()
		return models.NewInfrastructureError("enqueue "+task.Type(), err)
	}
	n.logger.Debug("task enqueued", append(fields,
		zap.String("type", task.Type()),
		zap.String("task_id", info.ID),
		zap.String("queue", info.Queue))...)
	return nil
}
