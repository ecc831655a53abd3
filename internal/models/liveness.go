package models

import "time"

// Observation is one detection sample from a voting session.
type Observation struct {
	VoterID     string    `json:"voterId" binding:"required"`
	CandidateID string    `json:"candidateId"`
	PersonCount int       `json:"personCount"`
	FaceCount   int       `json:"faceCount"`
	VoiceCount  int       `json:"voiceCount"`
	AudioEnergy float64   `json:"audioEnergy"`
	Timestamp   time.Time `json:"timestamp"`
}

// Count returns the count the pattern detector tracks: persons when reported, faces otherwise.
func (o Observation) Count() int {
	if o.PersonCount > 0 {
		return o.PersonCount
	}
	return o.FaceCount
}

// Validate rejects negative counts.
func (o Observation) Validate() error {
	if o.VoterID == "" {
		return ErrVoterIDRequired
	}
	if o.PersonCount < 0 || o.FaceCount < 0 || o.VoiceCount < 0 || o.AudioEnergy < 0 {
		return ErrInvalidObservation
	}
	return nil
}

// PatternSignals are the heuristics evaluated over the observation window.
type PatternSignals struct {
	RapidChanges       bool    `json:"rapidChanges"`
	ChangeRatio        float64 `json:"changeRatio"`
	PeriodicAbsence    bool    `json:"periodicAbsence"`
	Reappearances      int     `json:"reappearances"`
	Alternating        bool    `json:"alternating"`
	EnergyVarianceHigh bool    `json:"energyVarianceHigh"`
	EnergyVariance     float64 `json:"energyVariance"`
}

// Score counts the scored signals. Energy variance is informational only.
func (s PatternSignals) Score() int {
	score := 0
	for _, flag := range []bool{s.RapidChanges, s.PeriodicAbsence, s.Alternating} {
		if flag {
			score++
		}
	}
	return score
}

// PatternReport is the state of the pattern detector after an observation.
type PatternReport struct {
	Analyzed           bool           `json:"analyzed"`
	WindowSize         int            `json:"windowSize"`
	Signals            PatternSignals `json:"signals"`
	SuspiciousScore    int            `json:"suspiciousScore"`
	SuspiciousPatterns float64        `json:"suspiciousPatterns"`
	FraudDetected      bool           `json:"fraudDetected"`
	AnalyzedAt         *time.Time     `json:"analyzedAt,omitempty"`
}

// ViolationType classifies an invalidated vote.
type ViolationType string

const (
	ViolationMultipleFaces  ViolationType = "multiple_faces"
	ViolationMultipleVoices ViolationType = "multiple_voices"
	ViolationFraudDetection ViolationType = "fraud_detection"
	ViolationOther          ViolationType = "other"
)

// WarningEntry is the per-voter warning tracker state.
type WarningEntry struct {
	Count          int           `json:"count"`
	FirstWarningAt time.Time     `json:"firstWarningAt"`
	LastWarningAt  time.Time     `json:"lastWarningAt"`
	CandidateID    string        `json:"candidateId"`
	LastViolation  ViolationType `json:"lastViolation"`
}

// WarningResult is the warning tracker outcome for one observation.
type WarningResult struct {
	Warned         bool          `json:"warned"`
	Count          int           `json:"count"`
	MaxWarnings    int           `json:"maxWarnings"`
	ViolationType  ViolationType `json:"violationType,omitempty"`
	Invalidated    bool          `json:"invalidated"`
	AlreadyBlocked bool          `json:"alreadyBlocked,omitempty"`
	Reset          bool          `json:"reset,omitempty"`
	InvalidVote    *InvalidVote  `json:"invalidVote,omitempty"`
}

// InvalidVote is an append-only record of an invalidation.
type InvalidVote struct {
	VoterID          string            `json:"voterId" bson:"voter_id"`
	CandidateID      string            `json:"candidateId" bson:"candidate_id"`
	ViolationType    ViolationType     `json:"violationType" bson:"violation_type"`
	ViolationDetails string            `json:"violationDetails" bson:"violation_details"`
	Timestamp        time.Time         `json:"timestamp" bson:"timestamp"`
	EvidenceData     ViolationEvidence `json:"evidenceData" bson:"evidence_data"`
}

// ViolationEvidence is the evidence accumulated up to the invalidation.
type ViolationEvidence struct {
	WarningCount int       `json:"warningCount" bson:"warning_count"`
	PersonCount  int       `json:"personCount" bson:"person_count"`
	FaceCount    int       `json:"faceCount" bson:"face_count"`
	VoiceCount   int       `json:"voiceCount" bson:"voice_count"`
	FirstSeenAt  time.Time `json:"firstSeenAt,omitempty" bson:"first_seen_at,omitempty"`
	LastSeenAt   time.Time `json:"lastSeenAt" bson:"last_seen_at"`
}

// ObservationResult combines both detectors for one observation.
type ObservationResult struct {
	VoterID  string        `json:"voterId"`
	Pattern  PatternReport `json:"pattern"`
	Warning  WarningResult `json:"warning"`
	Accepted bool          `json:"accepted"`
}

// LivenessSession describes an active voting session.
type LivenessSession struct {
	VoterID     string    `json:"voterId"`
	CandidateID string    `json:"candidateId,omitempty"`
	StartedAt   time.Time `json:"startedAt"`
	Active      bool      `json:"active"`
}

// StartSessionRequest opens a liveness session.
type StartSessionRequest struct {
	VoterID     string `json:"voterId" binding:"required"`
	CandidateID string `json:"candidateId"`
}
