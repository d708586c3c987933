// ABOUTME: Contact matching against stored contacts
// ABOUTME: Finds existing contacts by email, optionally by normalized name
package reconcile

import (
	"strings"

	"github.com/harperreed/rolodex/models"
)

type ContactMatcher struct {
	byEmail     map[string]*models.Contact
	byName      map[string][]*models.Contact
	matchByName bool
}

// NewContactMatcher creates a matcher from existing contacts. Name matching
// only fires when exactly one stored contact carries the normalized name.
func NewContactMatcher(contacts []models.Contact, matchByName bool) *ContactMatcher {
	m := &ContactMatcher{
		byEmail:     make(map[string]*models.Contact),
		byName:      make(map[string][]*models.Contact),
		matchByName: matchByName,
	}

	for i := range contacts {
		m.AddContact(&contacts[i])
	}

	return m
}

// FindMatch looks for an existing contact for an incoming record.
func (m *ContactMatcher) FindMatch(incoming FieldGetter) (*models.Contact, bool) {
	for _, field := range []models.CanonicalField{models.FieldPrimaryEmail, models.FieldSecondaryEmail} {
		email := normalizeEmail(incoming.Get(field))
		if email == "" {
			continue
		}
		if contact, found := m.byEmail[email]; found {
			return contact, true
		}
	}

	if !m.matchByName {
		return nil, false
	}

	name := NormalizeName(incoming.Get(models.FieldFirstName), incoming.Get(models.FieldLastName))
	if name == "" {
		return nil, false
	}
	candidates := m.byName[name]
	if len(candidates) != 1 {
		return nil, false
	}
	return candidates[0], true
}

// AddContact indexes a contact so later records in the same import match it.
// Existing email keys are not overwritten.
func (m *ContactMatcher) AddContact(contact *models.Contact) {
	for _, e := range []string{contact.PrimaryEmail, contact.SecondaryEmail} {
		email := normalizeEmail(e)
		if email == "" {
			continue
		}
		if _, exists := m.byEmail[email]; !exists {
			m.byEmail[email] = contact
		}
	}

	name := NormalizeName(contact.FirstName, contact.LastName)
	if name == "" {
		return
	}
	for _, c := range m.byName[name] {
		if c == contact {
			return
		}
	}
	m.byName[name] = append(m.byName[name], contact)
}

// normalizeEmail converts email to lowercase for comparison.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
