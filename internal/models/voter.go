package models

import "time"

// VerificationStatus is the identity-verification state of a voter.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// IsValid reports whether s is a known verification status.
func (s VerificationStatus) IsValid() bool {
	switch s {
	case VerificationPending, VerificationVerified, VerificationRejected:
		return true
	}
	return false
}

// VoteStatus tracks whether a voter's ballot has been cast.
type VoteStatus string

const (
	VoteNotVoted VoteStatus = "not_voted"
	VoteCounted  VoteStatus = "counted"
)

// Document is a stored upload. Path must stay readable for as long as the
// owning record references it.
type Document struct {
	Filename   string    `json:"filename" bson:"filename"`
	Path       string    `json:"path" bson:"path"`
	UploadedAt time.Time `json:"uploadedAt" bson:"uploaded_at"`
}

// Voter is the persisted voter record.
type Voter struct {
	VoterID            string             `json:"voterId" bson:"voter_id"`
	Name               string             `json:"name" bson:"name"`
	Phone              *Phone             `json:"phone,omitempty" bson:"phone,omitempty"`
	IDDocument         *Document          `json:"idDocument,omitempty" bson:"id_document,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus" bson:"verification_status"`
	PendingIDCaseID    string             `json:"pendingIdCaseId,omitempty" bson:"pending_id_case_id,omitempty"`
	VoteStatus         VoteStatus         `json:"voteStatus" bson:"vote_status"`
	IsBlocked          bool               `json:"isBlocked" bson:"is_blocked"`
	CreatedAt          time.Time          `json:"createdAt" bson:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updated_at"`
}

// HasOpenCase reports whether the voter holds a back-reference to a pending case.
func (v *Voter) HasOpenCase() bool {
	return v.PendingIDCaseID != ""
}

// Phone is a parsed contact number.
type Phone struct {
	DDI   string `json:"ddi" bson:"ddi"`
	Valor string `json:"valor" bson:"valor"`
	E164  string `json:"e164" bson:"e164"`
}

// VoterUpdate is a partial update of the mutable voter fields. Nil fields are left as is.
type VoterUpdate struct {
	VerificationStatus *VerificationStatus
	PendingIDCaseID    *string
	VoteStatus         *VoteStatus
	IsBlocked          *bool
}

// IsEmpty reports whether the update carries no field.
func (u VoterUpdate) IsEmpty() bool {
	return u.VerificationStatus == nil && u.PendingIDCaseID == nil && u.VoteStatus == nil && u.IsBlocked == nil
}

// Apply copies the set fields onto v.
func (u VoterUpdate) Apply(v *Voter) {
	if u.VerificationStatus != nil {
		v.VerificationStatus = *u.VerificationStatus
	}
	if u.PendingIDCaseID != nil {
		v.PendingIDCaseID = *u.PendingIDCaseID
	}
	if u.VoteStatus != nil {
		v.VoteStatus = *u.VoteStatus
	}
	if u.IsBlocked != nil {
		v.IsBlocked = *u.IsBlocked
	}
}

// VoterResponse is the public view of a voter.
type VoterResponse struct {
	VoterID            string             `json:"voterId"`
	Name               string             `json:"name"`
	Phone              *Phone             `json:"phone,omitempty"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	PendingIDCaseID    string             `json:"pendingIdCaseId,omitempty"`
	VoteStatus         VoteStatus         `json:"voteStatus"`
	IsBlocked          bool               `json:"isBlocked"`
	HasIDDocument      bool               `json:"hasIdDocument"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// ToResponse builds the public view.
func (v *Voter) ToResponse() VoterResponse {
	return VoterResponse{
		VoterID:            v.VoterID,
		Name:               v.Name,
		Phone:              v.Phone,
		VerificationStatus: v.VerificationStatus,
		PendingIDCaseID:    v.PendingIDCaseID,
		VoteStatus:         v.VoteStatus,
		IsBlocked:          v.IsBlocked,
		HasIDDocument:      v.IDDocument != nil,
		CreatedAt:          v.CreatedAt,
	}
}

// VoterRegistrationInput is the form part of a voter registration.
type VoterRegistrationInput struct {
	VoterID string `form:"voterId"`
	Name    string `form:"name"`
	Phone   string `form:"phone"`
}
