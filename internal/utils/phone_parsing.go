package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"github.com/securevote/app-verify/internal/models"
)

// DefaultPhoneRegion is used for numbers written without a country code.
const DefaultPhoneRegion = "IN"

var phoneFormatRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)

// ParsePhoneNumber parses a voter contact number. Numbers without a leading +
// are read in the default region.
func ParsePhoneNumber(phoneString string) (*models.Phone, error) {
	cleanPhone := strings.Join(strings.Fields(phoneString), "")
	if cleanPhone == "" {
		return nil, fmt.Errorf("empty phone number")
	}

	num, err := phonenumbers.Parse(cleanPhone, DefaultPhoneRegion)
	if err != nil {
		return nil, fmt.Errorf("failed to parse phone number: %w", err)
	}

	if !phonenumbers.IsValidNumber(num) {
		return nil, fmt.Errorf("invalid phone number: %s", phoneString)
	}

	return &models.Phone{
		DDI:   fmt.Sprintf("%d", num.GetCountryCode()),
		Valor: phonenumbers.GetNationalSignificantNumber(num),
		E164:  phonenumbers.Format(num, phonenumbers.E164),
	}, nil
}

// ValidatePhoneFormat validates if a phone string is in a valid format
func ValidatePhoneFormat(phoneString string) error {
	if !phoneFormatRegex.MatchString(strings.ReplaceAll(phoneString, " ", "")) {
		return fmt.Errorf("invalid phone number format: %s", phoneString)
	}
	return nil
}
