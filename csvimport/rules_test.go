// ABOUTME: Rule-by-rule tests for the CSV header mapping table
// ABOUTME: Covers Google, Outlook, and generic spreadsheet header wording
package csvimport

import (
	"testing"

	"github.com/harperreed/rolodex/models"
	"github.com/stretchr/testify/assert"
)

func TestMatchHeader(t *testing.T) {
	tests := []struct {
		header   string
		field    models.CanonicalField
		priority int
	}{
		{"First Name", models.FieldFirstName, PriorityStrong},
		{"given_name", models.FieldFirstName, PriorityStrong},
		{"Name", models.FieldFirstName, PriorityWeak},
		{"Last Name", models.FieldLastName, PriorityStrong},
		{"Family Name", models.FieldLastName, PriorityStrong},
		{"Surname", models.FieldLastName, PriorityStrong},

		{"Email", models.FieldPrimaryEmail, PriorityStrong},
		{"E-mail Address", models.FieldPrimaryEmail, PriorityStrong},
		{"E-mail 1 - Value", models.FieldPrimaryEmail, PriorityStrong},
		{"E-mail 2 - Value", models.FieldSecondaryEmail, PriorityStrong},
		{"E-mail 2 Address", models.FieldSecondaryEmail, PriorityStrong},
		{"Work Email", models.FieldSecondaryEmail, PriorityStrong},
		{"E-mail 3 - Value", models.FieldSecondaryEmail, PriorityWeak},
		{"Emails", models.FieldPrimaryEmail, PriorityWeak},

		{"Phone", models.FieldPrimaryPhone, PriorityStrong},
		{"Mobile", models.FieldPrimaryPhone, PriorityStrong},
		{"Mobile Phone", models.FieldPrimaryPhone, PriorityStrong},
		{"Phone 1 - Value", models.FieldPrimaryPhone, PriorityStrong},
		{"Phone 2 - Value", models.FieldSecondaryPhone, PriorityStrong},
		{"Business Phone", models.FieldSecondaryPhone, PriorityStrong},
		{"Phone 3 - Value", models.FieldSecondaryPhone, PriorityWeak},
		{"Car Phone", models.FieldPrimaryPhone, PriorityWeak},

		{"Company", models.FieldCompany, PriorityStrong},
		{"Organization 1 - Name", models.FieldCompany, PriorityStrong},
		{"Job Title", models.FieldTitle, PriorityStrong},
		{"Organization 1 - Title", models.FieldTitle, PriorityStrong},

		{"Street", models.FieldStreetAddress, PriorityStrong},
		{"Address 1 - Street", models.FieldStreetAddress, PriorityStrong},
		{"Home Street", models.FieldStreetAddress, PriorityStrong},
		{"Address 1 - City", models.FieldCity, PriorityStrong},
		{"City", models.FieldCity, PriorityStrong},
		{"Address 1 - Region", models.FieldState, PriorityStrong},
		{"State", models.FieldState, PriorityStrong},
		{"Address 1 - Postal Code", models.FieldZipCode, PriorityStrong},
		{"ZIP", models.FieldZipCode, PriorityStrong},
		{"Address 1 - Country", models.FieldCountry, PriorityStrong},
		{"Country/Region", models.FieldCountry, PriorityStrong},
		{"Location", models.FieldCity, PriorityWeak},
		{"Address 1 - Formatted", models.FieldStreetAddress, PriorityWeak},

		{"Website", models.FieldWebsiteURL, PriorityStrong},
		{"Website 1 - Value", models.FieldWebsiteURL, PriorityStrong},
		{"Blog URL", models.FieldWebsiteURL, PriorityWeak},
		{"LinkedIn", models.FieldLinkedinURL, PriorityStrong},
		{"LinkedIn URL", models.FieldLinkedinURL, PriorityStrong},
		{"Linkedin Website", models.FieldLinkedinURL, PriorityStrong},

		{"Referred By", models.FieldReferredBy, PriorityStrong},
		{"Relation 1 - Value", models.FieldReferredBy, PriorityStrong},
		{"Referral Source", models.FieldReferredBy, PriorityWeak},

		{"Notes", models.FieldNotes, PriorityStrong},
		{"Meeting notes", models.FieldNotes, PriorityWeak},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			r, ok := MatchHeader(tt.header)
			assert.True(t, ok)
			assert.Equal(t, tt.field, r.Field)
			assert.Equal(t, tt.priority, r.Priority)
		})
	}
}

func TestMatchHeaderNoMatch(t *testing.T) {
	for _, h := range []string{"", "   ", "Nickname", "Birthday", "Name Prefix", "Additional Name"} {
		_, ok := MatchHeader(h)
		assert.False(t, ok, "header %q", h)
	}
}

func TestIsSkipHeader(t *testing.T) {
	skip := []string{
		"E-mail 1 - Type",
		"Phone 1 - Label",
		"Address 1 - Type",
		"Photo",
		"Group Membership",
		"Labels",
		"Given Name Yomi",
		"Phonetic First Name",
	}
	for _, h := range skip {
		assert.True(t, IsSkipHeader(h), "header %q", h)
	}

	keep := []string{"Email", "Phone 1 - Value", "Notes", "Type of contact"}
	for _, h := range keep {
		assert.False(t, IsSkipHeader(h), "header %q", h)
	}
}

func TestRulesTableIsWellFormed(t *testing.T) {
	for i, r := range Rules {
		assert.True(t, r.Field.IsCanonical(), "rule %d field %s", i, r.Field)
		assert.Contains(t, []int{PriorityStrong, PriorityWeak}, r.Priority, "rule %d", i)
		assert.NotEmpty(t, r.Patterns, "rule %d", i)
	}
}
