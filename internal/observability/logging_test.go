package observability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	logger := Logger()
	require.NotNil(t, logger)

	// Should be safe to use
	logger.Info("test message")
}

func TestMaskVoterID(t *testing.T) {
	tests := []struct {
		name     string
		voterID  string
		expected string
	}{
		{"epic style id", "ABC1234567", "AB******67"},
		{"short id", "ABCD", "****"},
		{"five characters", "ABCDE", "AB*DE"},
		{"empty", "", "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MaskVoterID(tt.voterID))
		})
	}
}

func TestMaskIdentifier(t *testing.T) {
	assert.Equal(t, "********9012", MaskIdentifier("123456789012"))
	assert.Equal(t, "****", MaskIdentifier("12"))
}

func TestMaskSensitiveData(t *testing.T) {
	data := map[string]interface{}{
		"national_id": "123456789012",
		"phone":       "+919876543210",
		"raw_text":    "GOVERNMENT OF INDIA",
		"layer":       2,
		"voter":       "AB******67",
	}

	masked := MaskSensitiveData(data)

	assert.Equal(t, "********", masked["national_id"])
	assert.Equal(t, "********", masked["phone"])
	assert.Equal(t, "********", masked["raw_text"])
	assert.Equal(t, 2, masked["layer"])
	assert.Equal(t, "AB******67", masked["voter"])
}

func TestMaskSensitiveData_EmptyMap(t *testing.T) {
	masked := MaskSensitiveData(map[string]interface{}{})

	assert.NotNil(t, masked)
	assert.Len(t, masked, 0)
}

func TestContains(t *testing.T) {
	slice := []string{"phone", "raw_text"}

	assert.True(t, contains(slice, "phone"))
	assert.False(t, contains(slice, "layer"))
	assert.False(t, contains([]string{}, ""))
}
