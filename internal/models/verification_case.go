package models

import "time"

// CaseStatus is the lifecycle state of a verification case.
type CaseStatus string

const (
	CaseStatusPending  CaseStatus = "pending"
	CaseStatusApproved CaseStatus = "approved"
	CaseStatusRejected CaseStatus = "rejected"
)

// IsValid reports whether s is a known case status.
func (s CaseStatus) IsValid() bool {
	switch s {
	case CaseStatusPending, CaseStatusApproved, CaseStatusRejected:
		return true
	}
	return false
}

// ReviewDecision is the outcome an admin records on a case.
type ReviewDecision string

const (
	DecisionApproved ReviewDecision = "approved"
	DecisionRejected ReviewDecision = "rejected"
)

// OCRAttempt is the audit record of one identifier kind across both documents.
type OCRAttempt struct {
	Step1Number string `json:"step1Number,omitempty" bson:"step1_number,omitempty"`
	Step2Number string `json:"step2Number,omitempty" bson:"step2_number,omitempty"`
	Matched     bool   `json:"matched" bson:"matched"`
}

// OCRResults carries both OCR attempts, including partial or failed ones.
type OCRResults struct {
	NationalID OCRAttempt `json:"nationalId" bson:"national_id"`
	VoterID    OCRAttempt `json:"voterId" bson:"voter_id"`
	Step1Error string     `json:"step1Error,omitempty" bson:"step1_error,omitempty"`
	Step2Error string     `json:"step2Error,omitempty" bson:"step2_error,omitempty"`
}

// ImageComparisonSummary is the persisted subset of an ImageComparison.
type ImageComparisonSummary struct {
	HashMatch   bool        `json:"hashMatch" bson:"hash_match"`
	Similarity  float64     `json:"similarity" bson:"similarity"`
	MatchMethod MatchMethod `json:"matchMethod,omitempty" bson:"match_method,omitempty"`
	Error       string      `json:"error,omitempty" bson:"error,omitempty"`
}

// AdminReview is set exactly once, when a case is decided.
type AdminReview struct {
	ReviewerID string         `json:"reviewerId" bson:"reviewer_id"`
	ReviewedAt time.Time      `json:"reviewedAt" bson:"reviewed_at"`
	Decision   ReviewDecision `json:"decision" bson:"decision"`
	Reason     string         `json:"reason,omitempty" bson:"reason,omitempty"`
}

// VerificationCase is a parked manual-review case.
type VerificationCase struct {
	CaseID             string                 `json:"caseId" bson:"case_id"`
	VoterID            string                 `json:"voterId" bson:"voter_id"`
	Status             CaseStatus             `json:"status" bson:"status"`
	OriginalIDDocument Document               `json:"originalIdDocument" bson:"original_id_document"`
	Step2IDDocument    Document               `json:"step2IdDocument" bson:"step2_id_document"`
	OCRResults         OCRResults             `json:"ocrResults" bson:"ocr_results"`
	ImageComparison    ImageComparisonSummary `json:"imageComparison" bson:"image_comparison"`
	AdminReview        *AdminReview           `json:"adminReview,omitempty" bson:"admin_review,omitempty"`
	CreatedAt          time.Time              `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time              `json:"updatedAt" bson:"updated_at"`
}

// IsDecided reports whether the case has left the pending state.
func (c *VerificationCase) IsDecided() bool {
	return c.Status != CaseStatusPending
}

// CaseDecisionRequest is the admin approve/reject body.
type CaseDecisionRequest struct {
	Reason string `json:"reason"`
}

// CaseDecisionResult is returned after a successful admin decision.
type CaseDecisionResult struct {
	Case               *VerificationCase  `json:"case"`
	VoterID            string             `json:"voterId"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
}

// CaseStatistics counts cases per status.
type CaseStatistics struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// CaseListResponse is a page of cases.
type CaseListResponse struct {
	Cases []VerificationCase `json:"cases"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// CaseFilter selects cases for listing. An empty Status matches every case.
type CaseFilter struct {
	Status CaseStatus
	Page   int
	Limit  int
}

// Normalize clamps paging values.
func (f *CaseFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}
