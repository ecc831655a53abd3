package models

import (
	"errors"
	"fmt"
)

// Error taxonomy. Handlers map the top-level kinds to HTTP status codes and
// callers match them with errors.Is.
var (
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("not found")
	ErrInvalidState   = errors.New("invalid state")
	ErrExtraction     = errors.New("extraction failure")
	ErrInfrastructure = errors.New("infrastructure error")
)

// Specific errors, each wrapping one of the kinds above.
var (
	ErrVoterNotFound           = fmt.Errorf("voter not found: %w", ErrNotFound)
	ErrVoterExists             = fmt.Errorf("voter already registered: %w", ErrInvalidState)
	ErrCaseNotFound            = fmt.Errorf("verification case not found: %w", ErrNotFound)
	ErrCaseAlreadyDecided      = fmt.Errorf("verification case already decided: %w", ErrInvalidState)
	ErrCaseAlreadyOpen         = fmt.Errorf("voter already has an open verification case: %w", ErrInvalidState)
	ErrSessionNotFound         = fmt.Errorf("liveness session not found: %w", ErrNotFound)
	ErrVoterBlocked            = fmt.Errorf("voter is blocked: %w", ErrInvalidState)
	ErrReasonRequired          = fmt.Errorf("reason is required: %w", ErrValidation)
	ErrVoterIDRequired         = fmt.Errorf("voterId is required: %w", ErrValidation)
	ErrImageRequired           = fmt.Errorf("image is required: %w", ErrValidation)
	ErrInvalidObservation      = fmt.Errorf("invalid observation: %w", ErrValidation)
	ErrOriginalDocumentMissing = fmt.Errorf("original registration document missing: %w", ErrInfrastructure)
	ErrOCRUnavailable          = fmt.Errorf("ocr engine unavailable: %w", ErrExtraction)
	ErrImageDecode             = fmt.Errorf("image could not be decoded: %w", ErrExtraction)
)

// NewValidationError wraps a message as a validation error.
func NewValidationError(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

// NewInfrastructureError wraps an underlying storage or IO failure.
func NewInfrastructureError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrInfrastructure, err)
}

