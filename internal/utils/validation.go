package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/securevote/app-verify/internal/models"
)

var voterIDRegex = regexp.MustCompile(`^[A-Za-z0-9-]{3,32}$`)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult represents the result of validation
type ValidationResult struct {
	IsValid bool              `json:"isValid"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

// NewValidationResult creates a new validation result
func NewValidationResult() *ValidationResult {
	return &ValidationResult{
		IsValid: true,
		Errors:  []ValidationError{},
	}
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.IsValid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// Err returns nil for a valid result, otherwise an error wrapping models.ErrValidation.
func (vr *ValidationResult) Err() error {
	if vr.IsValid {
		return nil
	}
	msgs := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		msgs = append(msgs, e.Field+": "+e.Message)
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), models.ErrValidation)
}

// ValidateVoterID checks the shape of a voter id.
func ValidateVoterID(voterID string) *ValidationResult {
	result := NewValidationResult()
	switch {
	case strings.TrimSpace(voterID) == "":
		result.AddError("voterId", "voterId is required")
	case !voterIDRegex.MatchString(voterID):
		result.AddError("voterId", "voterId must be 3-32 letters, digits or dashes")
	}
	return result
}

// ValidateVoterRegistration validates the registration form
func ValidateVoterRegistration(input models.VoterRegistrationInput) *ValidationResult {
	result := ValidateVoterID(input.VoterID)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		result.AddError("name", "name is required")
	} else if len(name) > 200 {
		result.AddError("name", "name must not exceed 200 characters")
	}

	if input.Phone != "" {
		if err := ValidatePhoneFormat(input.Phone); err != nil {
			result.AddError("phone", "phone must be 10-15 digits with an optional leading +")
		}
	}

	return result
}

// ValidateCaseDecision validates an admin decision. Rejections need a reason.
func ValidateCaseDecision(decision models.ReviewDecision, reason string) *ValidationResult {
	result := NewValidationResult()
	if decision != models.DecisionApproved && decision != models.DecisionRejected {
		result.AddError("decision", "decision must be approved or rejected")
	}
	if decision == models.DecisionRejected && strings.TrimSpace(reason) == "" {
		result.AddError("reason", "reason is required when rejecting a case")
	}
	if len(reason) > 1000 {
		result.AddError("reason", "reason must not exceed 1000 characters")
	}
	return result
}
