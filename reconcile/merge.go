// ABOUTME: Additive merge of an incoming record into a stored contact
// ABOUTME: Fills empty fields, applies accepted conflict resolutions, concatenates free text
package reconcile

import (
	"strings"

	"github.com/harperreed/rolodex/models"
)

var freeTextFields = []models.CanonicalField{
	models.FieldNotes,
	models.FieldExpertise,
	models.FieldInterests,
}

// Merge folds incoming into existing and returns the fields it changed.
// Empty fields on existing are filled, fields listed in accepted take the
// incoming value, and free text is appended after a blank line unless
// existing already contains it. Emails move into whichever email slot is
// free; once both are taken, further addresses are noted in Notes.
func Merge(existing *models.Contact, incoming FieldGetter, accepted []models.CanonicalField) []models.CanonicalField {
	var changed []models.CanonicalField
	set := func(field models.CanonicalField, value string) {
		if existing.Get(field) == value {
			return
		}
		existing.Set(field, value)
		changed = append(changed, field)
	}

	acceptedSet := make(map[models.CanonicalField]bool, len(accepted))
	for _, f := range accepted {
		acceptedSet[f] = true
	}

	mergeEmails(existing, incoming, set)

	for _, field := range models.CanonicalFields {
		if isEmailField(field) || isFreeText(field) {
			continue
		}
		value := strings.TrimSpace(incoming.Get(field))
		if value == "" {
			continue
		}
		if strings.TrimSpace(existing.Get(field)) == "" || acceptedSet[field] {
			set(field, value)
		}
	}

	for _, field := range freeTextFields {
		value := strings.TrimSpace(incoming.Get(field))
		if value == "" {
			continue
		}
		current := existing.Get(field)
		switch {
		case strings.TrimSpace(current) == "":
			set(field, value)
		case !strings.Contains(current, value):
			set(field, current+"\n\n"+value)
		}
	}

	return changed
}

func mergeEmails(existing *models.Contact, incoming FieldGetter, set func(models.CanonicalField, string)) {
	for _, field := range []models.CanonicalField{models.FieldPrimaryEmail, models.FieldSecondaryEmail} {
		email := strings.TrimSpace(incoming.Get(field))
		if email == "" {
			continue
		}
		key := normalizeEmail(email)
		if normalizeEmail(existing.PrimaryEmail) == key || normalizeEmail(existing.SecondaryEmail) == key {
			continue
		}
		switch {
		case strings.TrimSpace(existing.PrimaryEmail) == "":
			set(models.FieldPrimaryEmail, email)
		case strings.TrimSpace(existing.SecondaryEmail) == "":
			set(models.FieldSecondaryEmail, email)
		default:
			line := "[Additional Email: " + email + "]"
			notes := existing.Notes
			switch {
			case strings.Contains(notes, line):
			case strings.TrimSpace(notes) == "":
				set(models.FieldNotes, line)
			default:
				set(models.FieldNotes, notes+"\n\n"+line)
			}
		}
	}
}

func isEmailField(field models.CanonicalField) bool {
	return field == models.FieldPrimaryEmail || field == models.FieldSecondaryEmail
}

func isFreeText(field models.CanonicalField) bool {
	for _, f := range freeTextFields {
		if f == field {
			return true
		}
	}
	return false
}
