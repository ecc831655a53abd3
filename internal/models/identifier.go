package models

// ExtractionResult is the outcome of scanning OCR text for one identifier kind.
type ExtractionResult struct {
	Found      bool    `json:"found"`
	Number     string  `json:"number,omitempty"`
	Formatted  string  `json:"formatted,omitempty"`
	Confidence float64 `json:"confidence"`
}

// IdentifierExtraction holds both identifier kinds read from one image.
// Err is set when OCR itself failed; both results are then not found.
type IdentifierExtraction struct {
	NationalID    ExtractionResult `json:"nationalId"`
	VoterID       ExtractionResult `json:"voterId"`
	OCRConfidence float64          `json:"ocrConfidence"`
	RawText       string           `json:"-"`
	Err           error            `json:"-"`
}

// Failed reports whether OCR produced no usable text.
func (e IdentifierExtraction) Failed() bool {
	return e.Err != nil
}

// ErrorString returns the OCR failure message or "".
func (e IdentifierExtraction) ErrorString() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}
