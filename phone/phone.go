// ABOUTME: Phone number normalization to E.164
// ABOUTME: Wraps libphonenumber parsing with a configurable default region
package phone

import (
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is used when a number carries no country code.
const DefaultRegion = "US"

// Normalizer converts raw phone strings into canonical E.164 form.
type Normalizer struct {
	region string
}

// NewNormalizer creates a normalizer for the given ISO 3166 region.
func NewNormalizer(region string) *Normalizer {
	region = strings.ToUpper(strings.TrimSpace(region))
	if region == "" {
		region = DefaultRegion
	}
	return &Normalizer{region: region}
}

// Region returns the default parsing region.
func (n *Normalizer) Region() string {
	return n.region
}

// Normalize returns the E.164 form of raw, or false when raw is not a
// valid number. Callers decide whether to fall back to the raw value.
func (n *Normalizer) Normalize(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}

	number, err := phonenumbers.Parse(raw, n.region)
	if err != nil {
		return "", false
	}
	if !phonenumbers.IsPossibleNumber(number) || !phonenumbers.IsValidNumber(number) {
		return "", false
	}

	return phonenumbers.Format(number, phonenumbers.E164), true
}

// NormalizeOrRaw returns the normalized form, falling back to the trimmed input.
func (n *Normalizer) NormalizeOrRaw(raw string) string {
	if normalized, ok := n.Normalize(raw); ok {
		return normalized
	}
	return strings.TrimSpace(raw)
}
