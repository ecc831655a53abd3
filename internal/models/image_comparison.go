package models

// MatchMethod names the comparison step that decided a match.
type MatchMethod string

const (
	MatchExact      MatchMethod = "EXACT"
	MatchPerceptual MatchMethod = "PERCEPTUAL"
)

// SHADetails is the cryptographic digest step.
type SHADetails struct {
	HashA string `json:"hashA"`
	HashB string `json:"hashB"`
	Match bool   `json:"match"`
}

// PerceptualDetails is the perceptual hash step.
type PerceptualDetails struct {
	HashA      string  `json:"hashA"`
	HashB      string  `json:"hashB"`
	Distance   int     `json:"distance"`
	BitLength  int     `json:"bitLength"`
	Similarity float64 `json:"similarity"`
	Threshold  float64 `json:"threshold"`
}

// ImageComparison is always returned by the comparator; failures are carried in Error.
type ImageComparison struct {
	Matched     bool               `json:"matched"`
	MatchMethod MatchMethod        `json:"matchMethod,omitempty"`
	Similarity  float64            `json:"similarity"`
	SHA         *SHADetails        `json:"sha,omitempty"`
	Perceptual  *PerceptualDetails `json:"perceptual,omitempty"`
	Error       string             `json:"error,omitempty"`
}

// Summary returns the persisted subset.
func (c ImageComparison) Summary() ImageComparisonSummary {
	return ImageComparisonSummary{
		HashMatch:   c.SHA != nil && c.SHA.Match,
		Similarity:  c.Similarity,
		MatchMethod: c.MatchMethod,
		Error:       c.Error,
	}
}

// WhitelistResult is the outcome of a whitelist check.
type WhitelistResult struct {
	Allowed   bool   `json:"allowed"`
	BestMatch string `json:"bestMatch,omitempty"`
	Distance  int    `json:"distance"`
	Threshold int    `json:"threshold"`
	Reason    string `json:"reason,omitempty"`
}
