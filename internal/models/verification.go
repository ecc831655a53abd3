package models

// VerificationLayer identifies the layer that settled a verification request.
type VerificationLayer int

const (
	LayerOCR        VerificationLayer = 1
	LayerImageMatch VerificationLayer = 2
	LayerAdmin      VerificationLayer = 3
)

// VerificationOutcome is the orchestrator result.
type VerificationOutcome struct {
	VoterID         string             `json:"voterId"`
	Verified        bool               `json:"verified"`
	Layer           VerificationLayer  `json:"layer"`
	Method          string             `json:"method"`
	Status          VerificationStatus `json:"status"`
	CaseID          string             `json:"caseId,omitempty"`
	Message         string             `json:"message"`
	OCRResults      OCRResults         `json:"ocrResults"`
	ImageComparison *ImageComparison   `json:"imageComparison,omitempty"`
}

const (
	MethodOCRNationalID = "ocr_national_id"
	MethodOCRVoterID    = "ocr_voter_id"
	MethodImageExact    = "image_exact"
	MethodImagePHash    = "image_perceptual"
	MethodAdminReview   = "admin_review"
)
