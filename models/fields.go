// ABOUTME: Canonical field set shared by the vCard and CSV import paths
// ABOUTME: Also holds the per-value LinkedIn URL classifier
package models

import (
	"fmt"
	"strings"
)

// CanonicalField names a target attribute of a contact.
type CanonicalField string

const (
	FieldFirstName      CanonicalField = "first_name"
	FieldLastName       CanonicalField = "last_name"
	FieldPrimaryEmail   CanonicalField = "primary_email"
	FieldSecondaryEmail CanonicalField = "secondary_email"
	FieldPrimaryPhone   CanonicalField = "primary_phone"
	FieldSecondaryPhone CanonicalField = "secondary_phone"
	FieldTitle          CanonicalField = "title"
	FieldCompany        CanonicalField = "company"
	FieldLinkedinURL    CanonicalField = "linkedin_url"
	FieldWebsiteURL     CanonicalField = "website_url"
	FieldStreetAddress  CanonicalField = "street_address"
	FieldCity           CanonicalField = "city"
	FieldState          CanonicalField = "state"
	FieldZipCode        CanonicalField = "zip_code"
	FieldCountry        CanonicalField = "country"
	FieldReferredBy     CanonicalField = "referred_by"
	FieldNotes          CanonicalField = "notes"

	// Stored-only free-text fields. Never produced by an import.
	FieldExpertise CanonicalField = "expertise"
	FieldInterests CanonicalField = "interests"
)

// CanonicalFields lists the import targets in display order.
var CanonicalFields = []CanonicalField{
	FieldFirstName,
	FieldLastName,
	FieldPrimaryEmail,
	FieldSecondaryEmail,
	FieldPrimaryPhone,
	FieldSecondaryPhone,
	FieldTitle,
	FieldCompany,
	FieldLinkedinURL,
	FieldWebsiteURL,
	FieldStreetAddress,
	FieldCity,
	FieldState,
	FieldZipCode,
	FieldCountry,
	FieldReferredBy,
	FieldNotes,
}

// IsCanonical reports whether f is one of CanonicalFields.
func (f CanonicalField) IsCanonical() bool {
	for _, c := range CanonicalFields {
		if c == f {
			return true
		}
	}
	return false
}

// ParseField validates a field name supplied by a caller (CLI flag, MCP input).
func ParseField(s string) (CanonicalField, error) {
	f := CanonicalField(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsCanonical() {
		return "", fmt.Errorf("unknown field %q", s)
	}
	return f, nil
}

// IsLinkedInURL classifies a single URL value.
func IsLinkedInURL(value string) bool {
	return strings.Contains(strings.ToLower(value), "linkedin.com")
}
