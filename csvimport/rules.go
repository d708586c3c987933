// ABOUTME: Declarative header-to-field rule table for CSV column mapping
// ABOUTME: Each rule binds a canonical field to header patterns and a priority
package csvimport

import (
	"regexp"
	"strings"

	"github.com/harperreed/rolodex/models"
)

// Rule priorities. Lower is stronger.
const (
	PriorityStrong = 1
	PriorityWeak   = 2
)

// Rule binds a canonical field to case-insensitive header patterns.
type Rule struct {
	Field    models.CanonicalField
	Patterns []*regexp.Regexp
	Priority int
}

func rule(field models.CanonicalField, priority int, patterns ...string) Rule {
	r := Rule{Field: field, Priority: priority}
	for _, p := range patterns {
		r.Patterns = append(r.Patterns, regexp.MustCompile(`(?i)`+p))
	}
	return r
}

// Matches reports whether a normalized header matches any pattern.
func (r Rule) Matches(header string) bool {
	for _, p := range r.Patterns {
		if p.MatchString(header) {
			return true
		}
	}
	return false
}

// skipPatterns mark headers that never map to a field: per-value label and
// type columns, photos, group membership, and phonetic spellings.
var skipPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)-\s*(label|type)$`),
	regexp.MustCompile(`(?i)\bphoto\b`),
	regexp.MustCompile(`(?i)\bgroup membership\b|^groups?$|^labels$|^categories$`),
	regexp.MustCompile(`(?i)\bphonetic\b|\byomi\b`),
}

// Rules is evaluated as a whole: the matching rule with the lowest priority
// wins, ties go to the earlier rule. LinkedIn comes first so a header that
// names LinkedIn never lands on the generic website field.
var Rules = []Rule{
	rule(models.FieldLinkedinURL, PriorityStrong,
		`linked\s*in`),

	rule(models.FieldFirstName, PriorityStrong,
		`^(first|given)\s*name$`, `^first$`, `^fname$`, `^forename$`),
	rule(models.FieldFirstName, PriorityWeak,
		`^(full\s*|display\s*|contact\s*)?name$`),
	rule(models.FieldLastName, PriorityStrong,
		`^(last|family|sur)\s*name$`, `^last$`, `^lname$`, `^surname$`),

	rule(models.FieldSecondaryEmail, PriorityStrong,
		`^e-?mail\s*2(\s*-\s*value|\s*address)?$`,
		`^(secondary|other|alternate|alt|work|business)\s*e-?mail(\s*address)?$`),
	rule(models.FieldSecondaryEmail, PriorityWeak,
		`^e-?mail\s*3(\s*-\s*value|\s*address)?$`),
	rule(models.FieldPrimaryEmail, PriorityStrong,
		`^e-?mail(\s*address)?$`,
		`^e-?mail\s*1(\s*-\s*value|\s*address)?$`,
		`^(primary|personal|home)\s*e-?mail(\s*address)?$`),
	rule(models.FieldPrimaryEmail, PriorityWeak,
		`e-?mail`),

	rule(models.FieldSecondaryPhone, PriorityStrong,
		`^phone\s*2(\s*-\s*value)?$`,
		`^(secondary|other|alternate|alt|work|business|home|office)\s*(phone|tel|telephone)(\s*number)?$`),
	rule(models.FieldSecondaryPhone, PriorityWeak,
		`^phone\s*3(\s*-\s*value)?$`,
		`^(business|home)\s*phone\s*2$`),
	rule(models.FieldPrimaryPhone, PriorityStrong,
		`^(phone|telephone|tel)(\s*number)?$`,
		`^phone\s*1(\s*-\s*value)?$`,
		`^(primary|main)\s*phone(\s*number)?$`,
		`^(mobile|cell)(\s*phone)?(\s*number)?$`),
	rule(models.FieldPrimaryPhone, PriorityWeak,
		`phone|mobile|\bcell\b|\btel\b`),

	rule(models.FieldCompany, PriorityStrong,
		`^(company|organization|organisation|employer)(\s*name)?$`,
		`^organization\s*1\s*-\s*name$`),
	rule(models.FieldTitle, PriorityStrong,
		`^(job\s*)?title$`, `^position$`, `^role$`,
		`^organization\s*1\s*-\s*title$`),

	rule(models.FieldStreetAddress, PriorityStrong,
		`^(street|street\s*address|address\s*line\s*1|address\s*1)$`,
		`^address\s*1\s*-\s*street$`,
		`^(home|business|work|other)\s*street$`),
	rule(models.FieldCity, PriorityStrong,
		`^(city|town|locality)$`,
		`^address\s*1\s*-\s*city$`,
		`^(home|business|work|other)\s*city$`),
	rule(models.FieldState, PriorityStrong,
		`^(state|province|region|state/province)$`,
		`^address\s*1\s*-\s*region$`,
		`^(home|business|work|other)\s*state$`),
	rule(models.FieldZipCode, PriorityStrong,
		`^(zip|zip\s*code|zipcode|postal\s*code|postcode|post\s*code)$`,
		`^address\s*1\s*-\s*postal\s*code$`,
		`^(home|business|work|other)\s*postal\s*code$`),
	rule(models.FieldCountry, PriorityStrong,
		`^(country|country/region|nation)$`,
		`^address\s*1\s*-\s*country$`,
		`^(home|business|work|other)\s*country(/region)?$`),
	rule(models.FieldCity, PriorityWeak,
		`location`),
	rule(models.FieldStreetAddress, PriorityWeak,
		`address`),

	rule(models.FieldWebsiteURL, PriorityStrong,
		`^(website|web\s*site|web\s*page|webpage|homepage|home\s*page|url|site)$`,
		`^website\s*1\s*-\s*value$`,
		`^(personal|business)\s*web\s*page$`),
	rule(models.FieldWebsiteURL, PriorityWeak,
		`web|url|site`),

	rule(models.FieldReferredBy, PriorityStrong,
		`^referred\s*by$`, `^(referral|referrer)$`,
		`^relation\s*1\s*-\s*value$`),
	rule(models.FieldReferredBy, PriorityWeak,
		`refer`),

	rule(models.FieldNotes, PriorityStrong,
		`^(notes?|comments?|description|about|bio)$`),
	rule(models.FieldNotes, PriorityWeak,
		`note|comment`),
}

// normalizeHeader lowercases, trims, and collapses separators.
func normalizeHeader(header string) string {
	h := strings.ToLower(strings.TrimSpace(header))
	h = strings.Trim(h, `"'`)
	h = strings.ReplaceAll(h, "_", " ")
	return strings.Join(strings.Fields(h), " ")
}

// IsSkipHeader reports whether a header is deliberately ignored.
func IsSkipHeader(header string) bool {
	h := normalizeHeader(header)
	for _, p := range skipPatterns {
		if p.MatchString(h) {
			return true
		}
	}
	return false
}

// MatchHeader returns the strongest rule matching header.
func MatchHeader(header string) (Rule, bool) {
	h := normalizeHeader(header)
	if h == "" {
		return Rule{}, false
	}

	var best Rule
	found := false
	for _, r := range Rules {
		if !r.Matches(h) {
			continue
		}
		if !found || r.Priority < best.Priority {
			best = r
			found = true
		}
	}
	return best, found
}
