package ocr

import (
	"math"
	"regexp"
	"strings"

	"github.com/securevote/app-verify/internal/models"
)

type pattern struct {
	name       string
	re         *regexp.Regexp
	confidence float64
}

// National-ID families, tried in order. The first structurally valid match wins.
var nationalIDPatterns = []pattern{
	{"grouped", regexp.MustCompile(`\b(\d{4})[ \t]+(\d{4})[ \t]+(\d{4})\b`), 95},
	{"contiguous", regexp.MustCompile(`\b(\d{12})\b`), 85},
	{"labeled", regexp.MustCompile(`(?i)\b(?:aadhaar|aadhar|uidai|uid)\b(?:\s*(?:no|number|num)\b\.?)?\s*[:\-]?\s*([\d][\d \t-]{10,18}[\d])`), 90},
}

// Voter-ID families. Keyword context is tried before bare scanning.
var voterIDPatterns = []pattern{
	{"labeled", regexp.MustCompile(`(?i)\b(?:epic|voter\s*id|elector'?s?\s+photo\s+identity\s+card)\b(?:\s*(?:no|number|num)\b\.?)?\s*[:\-]?\s*([A-Za-z]{3})\s?(\d{7})`), 95},
	{"bare", regexp.MustCompile(`\b([A-Z]{3})\s?(\d{7})`), 80},
}

// nationalIDSpan locates every 12-digit-looking run so voter-ID candidates
// overlapping one can be discarded.
var nationalIDSpan = regexp.MustCompile(`\d{4}[ \t]*\d{4}[ \t]*\d{4}`)

const (
	nationalIDLength = 12
	voterIDLength    = 10
)

// ParseIdentifiers scans OCR text for both identifier kinds. ocrConfidence is
// the engine's mean word confidence (0-100, 0 when unknown).
func ParseIdentifiers(text string, ocrConfidence float64) (nationalID, voterID models.ExtractionResult) {
	return ExtractNationalID(text, ocrConfidence), ExtractVoterID(text, ocrConfidence)
}

// ExtractNationalID finds a 12-digit identifier. Only the digit count is checked;
// no checksum is applied.
func ExtractNationalID(text string, ocrConfidence float64) models.ExtractionResult {
	for _, p := range nationalIDPatterns {
		for _, m := range p.re.FindAllStringSubmatch(text, -1) {
			number := digitsOnly(strings.Join(m[1:], ""))
			if len(number) != nationalIDLength {
				continue
			}
			return models.ExtractionResult{
				Found:      true,
				Number:     number,
				Formatted:  number[0:4] + " " + number[4:8] + " " + number[8:12],
				Confidence: blendConfidence(p.confidence, ocrConfidence),
			}
		}
	}
	return models.ExtractionResult{}
}

// ExtractVoterID finds a 3-letter + 7-digit identifier that does not sit inside
// a 12-digit number.
func ExtractVoterID(text string, ocrConfidence float64) models.ExtractionResult {
	blocked := nationalIDSpan.FindAllStringIndex(text, -1)

	for _, p := range voterIDPatterns {
		for _, idx := range p.re.FindAllStringSubmatchIndex(text, -1) {
			letters := text[idx[2]:idx[3]]
			digits := text[idx[4]:idx[5]]
			if overlaps(idx[4], idx[5], blocked) || followedByDigit(text, idx[5]) {
				continue
			}
			number := strings.ToUpper(letters) + digits
			if len(number) != voterIDLength {
				continue
			}
			return models.ExtractionResult{
				Found:      true,
				Number:     number,
				Formatted:  number,
				Confidence: blendConfidence(p.confidence, ocrConfidence),
			}
		}
	}
	return models.ExtractionResult{}
}

// NormalizeIdentifier strips everything but letters and digits and upper-cases the rest.
func NormalizeIdentifier(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r >= 'a' && r <= 'z':
			b.WriteRune(r - 'a' + 'A')
		case r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		}
	}
	return b.String()
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func followedByDigit(text string, end int) bool {
	return end < len(text) && text[end] >= '0' && text[end] <= '9'
}

func overlaps(start, end int, spans [][]int) bool {
	for _, s := range spans {
		if start < s[1] && s[0] < end {
			return true
		}
	}
	return false
}

// blendConfidence averages the pattern's structural confidence with the OCR
// confidence when the engine reported one.
func blendConfidence(patternConfidence, ocrConfidence float64) float64 {
	if ocrConfidence <= 0 {
		return patternConfidence
	}
	if ocrConfidence > 100 {
		ocrConfidence = 100
	}
	return math.Round((patternConfidence+ocrConfidence)/2*10) / 10
}
