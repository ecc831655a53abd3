package observability

import (
	"github.com/securevote/app-verify/internal/logging"
)

// Logger returns the global safe logger instance
func Logger() *logging.SafeLogger {
	return logging.Logger
}

// MaskVoterID keeps the first and last two characters of a voter id.
func MaskVoterID(voterID string) string {
	if len(voterID) <= 4 {
		return "****"
	}
	masked := make([]byte, len(voterID))
	for i := range masked {
		switch {
		case i < 2 || i >= len(voterID)-2:
			masked[i] = voterID[i]
		default:
			masked[i] = '*'
		}
	}
	return string(masked)
}

// MaskIdentifier masks an extracted document number, keeping the last four digits.
func MaskIdentifier(number string) string {
	if len(number) <= 4 {
		return "****"
	}
	return "********" + number[len(number)-4:]
}

// MaskSensitiveData masks sensitive data in a map
func MaskSensitiveData(data map[string]interface{}) map[string]interface{} {
	sensitiveFields := []string{"national_id", "voter_id_number", "phone", "raw_text"}
	masked := make(map[string]interface{})

	for k, v := range data {
		if contains(sensitiveFields, k) {
			masked[k] = "********"
		} else {
			masked[k] = v
		}
	}

	return masked
}

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
