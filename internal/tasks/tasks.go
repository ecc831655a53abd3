// Package tasks defines the background tasks published by the API and
// processed by the worker.
package tasks

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/securevote/app-verify/internal/models"
)

// Task type names.
const (
	TypeReviewRequested = "verification:review_requested"
	TypeVoteInvalidated = "liveness:vote_invalidated"
)

// Queue names and their weights on the worker.
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
)

// Queues is the priority map handed to the asynq server.
var Queues = map[string]int{
	QueueCritical: 6,
	QueueDefault:  3,
}

const (
	maxRetry    = 10
	taskTimeout = 60 * time.Second
)

// ReviewRequestedPayload announces a case waiting for an administrator.
type ReviewRequestedPayload struct {
	CaseID    string    `json:"caseId"`
	VoterID   string    `json:"voterId"`
	CreatedAt time.Time `json:"createdAt"`
}

// VoteInvalidatedPayload announces a vote invalidated by the liveness monitor.
type VoteInvalidatedPayload struct {
	VoterID       string               `json:"voterId"`
	CandidateID   string               `json:"candidateId"`
	ViolationType models.ViolationType `json:"violationType"`
	Details       string               `json:"details"`
	Timestamp     time.Time            `json:"timestamp"`
}

// NewReviewRequestedTask builds the task for a newly opened case. The case id
// doubles as the task id so a case is announced once.
func NewReviewRequestedTask(c *models.VerificationCase) (*asynq.Task, error) {
	payload, err := json.Marshal(ReviewRequestedPayload{
		CaseID:    c.CaseID,
		VoterID:   c.VoterID,
		CreatedAt: c.CreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal review payload: %w", err)
	}
	return asynq.NewTask(TypeReviewRequested, payload,
		asynq.TaskID(TypeReviewRequested+":"+c.CaseID),
		asynq.Queue(QueueDefault),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
	), nil
}

// NewVoteInvalidatedTask builds the task for an invalidated vote. A voter is
// invalidated at most once, so the voter id keys the task.
func NewVoteInvalidatedTask(vote *models.InvalidVote) (*asynq.Task, error) {
	payload, err := json.Marshal(VoteInvalidatedPayload{
		VoterID:       vote.VoterID,
		CandidateID:   vote.CandidateID,
		ViolationType: vote.ViolationType,
		Details:       vote.ViolationDetails,
		Timestamp:     vote.Timestamp,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invalidation payload: %w", err)
	}
	return asynq.NewTask(TypeVoteInvalidated, payload,
		asynq.TaskID(TypeVoteInvalidated+":"+vote.VoterID),
		asynq.Queue(QueueCritical),
		asynq.MaxRetry(maxRetry),
		asynq.Timeout(taskTimeout),
	), nil
}
