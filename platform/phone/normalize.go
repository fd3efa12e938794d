// Package phone provides phone number utilities.
// This is part of the platform layer and contains no business logic.
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// Numbers without a country prefix are interpreted as Indian; the supported
// cities are all in the Chandigarh tricity area.
const defaultRegion = "IN"

// NormalizeE164 formats a phone number to E.164 so duplicate detection sees
// one spelling per number. Input that does not parse as a valid number is
// passed through trimmed, never rejected.
func NormalizeE164(input string) string {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return trimmed
	}

	number, err := phonenumbers.Parse(trimmed, defaultRegion)
	if err != nil {
		return trimmed
	}

	if !phonenumbers.IsValidNumber(number) {
		return trimmed
	}

	return phonenumbers.Format(number, phonenumbers.E164)
}
