// ABOUTME: Field-level conflict detection between an incoming and a stored contact
// ABOUTME: Phones compare by normalized form, free-text fields are never flagged
package reconcile

import (
	"strings"

	"github.com/harperreed/rolodex/models"
)

// FieldGetter is satisfied by both models.ParsedContact and models.Contact.
type FieldGetter interface {
	Get(field models.CanonicalField) string
}

// PhoneNormalizer turns a raw phone string into its canonical form.
type PhoneNormalizer interface {
	Normalize(raw string) (string, bool)
}

// ConflictFields are the fields a human is asked to resolve. Emails are
// identity keys and free-text fields are always concatenated instead.
var ConflictFields = []models.CanonicalField{
	models.FieldFirstName,
	models.FieldLastName,
	models.FieldTitle,
	models.FieldCompany,
	models.FieldPrimaryPhone,
	models.FieldSecondaryPhone,
	models.FieldLinkedinURL,
	models.FieldWebsiteURL,
	models.FieldStreetAddress,
	models.FieldCity,
	models.FieldState,
	models.FieldZipCode,
	models.FieldCountry,
}

// IsConflictField reports whether field is in ConflictFields.
func IsConflictField(field models.CanonicalField) bool {
	for _, f := range ConflictFields {
		if f == field {
			return true
		}
	}
	return false
}

type Detector struct {
	phones PhoneNormalizer
}

// NewDetector creates a detector. A nil normalizer compares phones verbatim.
func NewDetector(phones PhoneNormalizer) *Detector {
	return &Detector{phones: phones}
}

// Detect lists the fields where both sides carry a value and the values
// differ, in ConflictFields order.
func (d *Detector) Detect(incoming, existing FieldGetter) []models.FieldConflict {
	conflicts := []models.FieldConflict{}

	for _, field := range ConflictFields {
		in := incoming.Get(field)
		ex := existing.Get(field)
		if strings.TrimSpace(in) == "" || strings.TrimSpace(ex) == "" {
			continue
		}
		if d.same(field, in, ex) {
			continue
		}
		conflicts = append(conflicts, models.FieldConflict{
			Field:         field,
			ExistingValue: ex,
			IncomingValue: in,
		})
	}

	return conflicts
}

func (d *Detector) same(field models.CanonicalField, a, b string) bool {
	if isPhoneField(field) {
		return d.phoneKey(a) == d.phoneKey(b)
	}
	return a == b
}

func (d *Detector) phoneKey(raw string) string {
	if d.phones != nil {
		if n, ok := d.phones.Normalize(raw); ok {
			return n
		}
	}
	return raw
}

func isPhoneField(field models.CanonicalField) bool {
	return field == models.FieldPrimaryPhone || field == models.FieldSecondaryPhone
}
