// ABOUTME: vCard entity field extraction
// ABOUTME: Picks names, ranked emails and phones, address, URLs, and folds overflow into notes
package vcardimport

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emersion/go-vcard"
	"github.com/harperreed/rolodex/models"
)

var (
	ErrNoName          = errors.New("entry has no usable name")
	ErrEmptyEntry      = errors.New("entry has no properties")
	ErrInvalidEncoding = errors.New("entry contains invalid UTF-8")
)

// phoneTypePriority ranks TEL TYPE parameters. Untyped phones rank last.
var phoneTypePriority = []string{"cell", "mobile", "iphone", "main", "work", "home", "voice", "other"}

// structuralFields carry no contact data of their own.
var structuralFields = map[string]bool{
	vcard.FieldVersion:   true,
	vcard.FieldProductID: true,
}

// PhoneNormalizer canonicalizes phone numbers.
type PhoneNormalizer interface {
	Normalize(raw string) (string, bool)
}

// Extractor decodes a single vCard into a ParsedContact.
type Extractor struct {
	phones PhoneNormalizer
}

func NewExtractor(phones PhoneNormalizer) *Extractor {
	return &Extractor{phones: phones}
}

// Extract returns the typed fields of card. TempID and SourceIndex are left
// to the caller.
func (e *Extractor) Extract(card vcard.Card) (*models.ParsedContact, error) {
	if isEmptyCard(card) {
		return nil, ErrEmptyEntry
	}
	if err := validateEncoding(card); err != nil {
		return nil, err
	}

	first, last := extractName(card)
	if first == "" && last == "" {
		return nil, ErrNoName
	}
	// A lone family name still identifies the person.
	if first == "" {
		first, last = last, ""
	}

	pc := &models.ParsedContact{
		FirstName: first,
		LastName:  last,
		Title:     strings.TrimSpace(card.Value(vcard.FieldTitle)),
		Company:   extractCompany(card),
	}

	emails := rankedEmails(card[vcard.FieldEmail])
	pc.PrimaryEmail, pc.SecondaryEmail = slot(emails, 0), slot(emails, 1)

	phones := e.rankedPhones(card[vcard.FieldTelephone])
	pc.PrimaryPhone, pc.SecondaryPhone = slot(phones, 0), slot(phones, 1)

	if addr := card.Address(); addr != nil {
		pc.StreetAddress = joinNonEmpty(", ", addr.PostOfficeBox, addr.ExtendedAddress, addr.StreetAddress)
		pc.City = strings.TrimSpace(addr.Locality)
		pc.State = strings.TrimSpace(addr.Region)
		pc.ZipCode = strings.TrimSpace(addr.PostalCode)
		pc.Country = strings.TrimSpace(addr.Country)
	}

	for _, f := range card[vcard.FieldURL] {
		u := strings.TrimSpace(f.Value)
		if u == "" {
			continue
		}
		if models.IsLinkedInURL(u) {
			if pc.LinkedinURL == "" {
				pc.LinkedinURL = u
			}
		} else if pc.WebsiteURL == "" {
			pc.WebsiteURL = u
		}
	}

	pc.Notes = composeNotes(strings.TrimSpace(card.Value(vcard.FieldNote)), overflow(emails), overflow(phones))

	return pc, nil
}

func isEmptyCard(card vcard.Card) bool {
	for name, fields := range card {
		if structuralFields[name] {
			continue
		}
		if len(fields) > 0 {
			return false
		}
	}
	return true
}

func validateEncoding(card vcard.Card) error {
	for name, fields := range card {
		for _, f := range fields {
			if !utf8.ValidString(f.Value) {
				return fmt.Errorf("%w: %s", ErrInvalidEncoding, name)
			}
		}
	}
	return nil
}

// extractName prefers N and falls back to FN split on the first space.
func extractName(card vcard.Card) (string, string) {
	if n := card.Name(); n != nil {
		first := strings.TrimSpace(n.GivenName)
		last := strings.TrimSpace(n.FamilyName)
		if first != "" || last != "" {
			return first, last
		}
	}

	fn := strings.TrimSpace(card.Value(vcard.FieldFormattedName))
	if fn == "" {
		return "", ""
	}
	first, rest, _ := strings.Cut(fn, " ")
	return first, strings.TrimSpace(rest)
}

// extractCompany takes the organization name, dropping unit components.
func extractCompany(card vcard.Card) string {
	org := card.Value(vcard.FieldOrganization)
	name, _, _ := strings.Cut(org, ";")
	return strings.TrimSpace(name)
}

// rankedEmails orders by PREF ascending; unmarked emails follow in file order.
func rankedEmails(fields []*vcard.Field) []string {
	type candidate struct {
		value string
		pref  int
	}

	candidates := make([]candidate, 0, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		if v == "" {
			continue
		}
		candidates = append(candidates, candidate{value: v, pref: preference(f)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].pref < candidates[j].pref
	})

	values := make([]string, len(candidates))
	for i, c := range candidates {
		values[i] = c.value
	}
	return dedupe(values)
}

// rankedPhones orders by type priority, normalizes, then dedupes so that
// differently formatted copies of one number collapse.
func (e *Extractor) rankedPhones(fields []*vcard.Field) []string {
	type candidate struct {
		value string
		score int
	}

	candidates := make([]candidate, 0, len(fields))
	for _, f := range fields {
		v := strings.TrimSpace(f.Value)
		// vCard 4 allows tel: URIs.
		v = strings.TrimSpace(strings.TrimPrefix(v, "tel:"))
		if v == "" {
			continue
		}
		candidates = append(candidates, candidate{value: v, score: phoneScore(f)})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score < candidates[j].score
	})

	values := make([]string, len(candidates))
	for i, c := range candidates {
		values[i] = c.value
		if e.phones != nil {
			if normalized, ok := e.phones.Normalize(c.value); ok {
				values[i] = normalized
			}
		}
	}
	return dedupe(values)
}

const noPreference = int(^uint(0) >> 1)

// preference reads PREF=n, treating the vCard 3 TYPE=pref marker as 1.
func preference(f *vcard.Field) int {
	if p := f.Params.Get(vcard.ParamPreferred); p != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			return n
		}
	}
	for _, t := range fieldTypes(f) {
		if t == "pref" {
			return 1
		}
	}
	return noPreference
}

func phoneScore(f *vcard.Field) int {
	best := len(phoneTypePriority)
	for _, t := range fieldTypes(f) {
		for i, want := range phoneTypePriority {
			if t == want && i < best {
				best = i
			}
		}
	}
	return best
}

// fieldTypes returns lowercased TYPE values, splitting comma lists.
func fieldTypes(f *vcard.Field) []string {
	var types []string
	for _, raw := range f.Params[vcard.ParamType] {
		for _, t := range strings.Split(raw, ",") {
			t = strings.ToLower(strings.Trim(strings.TrimSpace(t), `"`))
			if t != "" {
				types = append(types, t)
			}
		}
	}
	return types
}

func composeNotes(note string, extraEmails, extraPhones []string) string {
	var parts []string
	if note != "" {
		parts = append(parts, note)
	}
	if len(extraEmails) > 0 {
		parts = append(parts, bracketLines("Additional Email", extraEmails))
	}
	if len(extraPhones) > 0 {
		parts = append(parts, bracketLines("Additional Phone", extraPhones))
	}
	return strings.Join(parts, "\n\n")
}

func bracketLines(label string, values []string) string {
	lines := make([]string, len(values))
	for i, v := range values {
		lines[i] = fmt.Sprintf("[%s: %s]", label, v)
	}
	return strings.Join(lines, "\n")
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func slot(values []string, i int) string {
	if i < len(values) {
		return values[i]
	}
	return ""
}

func overflow(values []string) []string {
	if len(values) <= 2 {
		return nil
	}
	return values[2:]
}

func joinNonEmpty(sep string, values ...string) string {
	parts := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, sep)
}
