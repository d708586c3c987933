// ABOUTME: Data models for contact import and reconciliation
// ABOUTME: Defines ParsedContact, SkippedEntry, ColumnAnalysis, FieldConflict, and stored Contact
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ParsedContact is the canonical output of both import paths.
// Empty strings stand for absent values.
type ParsedContact struct {
	TempID         string `json:"temp_id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name,omitempty"`
	PrimaryEmail   string `json:"primary_email,omitempty"`
	SecondaryEmail string `json:"secondary_email,omitempty"`
	PrimaryPhone   string `json:"primary_phone,omitempty"`
	SecondaryPhone string `json:"secondary_phone,omitempty"`
	Title          string `json:"title,omitempty"`
	Company        string `json:"company,omitempty"`
	LinkedinURL    string `json:"linkedin_url,omitempty"`
	WebsiteURL     string `json:"website_url,omitempty"`
	StreetAddress  string `json:"street_address,omitempty"`
	City           string `json:"city,omitempty"`
	State          string `json:"state,omitempty"`
	ZipCode        string `json:"zip_code,omitempty"`
	Country        string `json:"country,omitempty"`
	ReferredBy     string `json:"referred_by,omitempty"`
	Notes          string `json:"notes,omitempty"`
	SourceIndex    int    `json:"source_index"`
}

// Get returns the value of a canonical field.
func (p *ParsedContact) Get(field CanonicalField) string {
	if ptr := p.slot(field); ptr != nil {
		return *ptr
	}
	return ""
}

// Set assigns a canonical field. Unknown fields are ignored.
func (p *ParsedContact) Set(field CanonicalField, value string) {
	if ptr := p.slot(field); ptr != nil {
		*ptr = value
	}
}

// AppendNote adds a line to Notes, newline-separated from existing content.
func (p *ParsedContact) AppendNote(line string) {
	if p.Notes == "" {
		p.Notes = line
		return
	}
	p.Notes += "\n" + line
}

// HasRequiredFields reports whether the contact is importable.
func (p *ParsedContact) HasRequiredFields() bool {
	return strings.TrimSpace(p.FirstName) != ""
}

// DisplayName joins first and last name.
func (p *ParsedContact) DisplayName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

func (p *ParsedContact) slot(field CanonicalField) *string {
	switch field {
	case FieldFirstName:
		return &p.FirstName
	case FieldLastName:
		return &p.LastName
	case FieldPrimaryEmail:
		return &p.PrimaryEmail
	case FieldSecondaryEmail:
		return &p.SecondaryEmail
	case FieldPrimaryPhone:
		return &p.PrimaryPhone
	case FieldSecondaryPhone:
		return &p.SecondaryPhone
	case FieldTitle:
		return &p.Title
	case FieldCompany:
		return &p.Company
	case FieldLinkedinURL:
		return &p.LinkedinURL
	case FieldWebsiteURL:
		return &p.WebsiteURL
	case FieldStreetAddress:
		return &p.StreetAddress
	case FieldCity:
		return &p.City
	case FieldState:
		return &p.State
	case FieldZipCode:
		return &p.ZipCode
	case FieldCountry:
		return &p.Country
	case FieldReferredBy:
		return &p.ReferredBy
	case FieldNotes:
		return &p.Notes
	}
	return nil
}

// SkipReason explains why a source entity did not become a ParsedContact.
type SkipReason string

const (
	SkipNoName          SkipReason = "NO_NAME"
	SkipParseError      SkipReason = "PARSE_ERROR"
	SkipEmptyEntry      SkipReason = "EMPTY_ENTRY"
	SkipDuplicateInFile SkipReason = "DUPLICATE_IN_FILE"
)

type SkippedEntry struct {
	Index   int        `json:"index"`
	Reason  SkipReason `json:"reason"`
	Preview string     `json:"preview,omitempty"`
}

// Confidence labels how sure the column mapping heuristic is.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ColumnAnalysis classifies one CSV column.
type ColumnAnalysis struct {
	Index          int            `json:"index"`
	Header         string         `json:"header"`
	HasData        bool           `json:"has_data"`
	DataCount      int            `json:"data_count"`
	Percentage     int            `json:"percentage"`
	SampleValue    string         `json:"sample_value,omitempty"`
	SuggestedField CanonicalField `json:"suggested_field,omitempty"`
	Confidence     Confidence     `json:"confidence"`
	// Skipped marks headers that are deliberately ignored (labels, photos, groups).
	Skipped bool `json:"skipped,omitempty"`
	// DemotedFrom is set when the column lost a collision for that field.
	DemotedFrom CanonicalField `json:"demoted_from,omitempty"`
}

// FieldConflict is a field where incoming and stored values disagree.
type FieldConflict struct {
	Field         CanonicalField `json:"field"`
	ExistingValue string         `json:"existing_value"`
	IncomingValue string         `json:"incoming_value"`
}

// Contact is a stored contact record.
type Contact struct {
	ID             uuid.UUID `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name,omitempty"`
	PrimaryEmail   string    `json:"primary_email,omitempty"`
	SecondaryEmail string    `json:"secondary_email,omitempty"`
	PrimaryPhone   string    `json:"primary_phone,omitempty"`
	SecondaryPhone string    `json:"secondary_phone,omitempty"`
	Title          string    `json:"title,omitempty"`
	Company        string    `json:"company,omitempty"`
	LinkedinURL    string    `json:"linkedin_url,omitempty"`
	WebsiteURL     string    `json:"website_url,omitempty"`
	StreetAddress  string    `json:"street_address,omitempty"`
	City           string    `json:"city,omitempty"`
	State          string    `json:"state,omitempty"`
	ZipCode        string    `json:"zip_code,omitempty"`
	Country        string    `json:"country,omitempty"`
	ReferredBy     string    `json:"referred_by,omitempty"`
	Notes          string    `json:"notes,omitempty"`
	Expertise      string    `json:"expertise,omitempty"`
	Interests      string    `json:"interests,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Get returns the value of a canonical field.
func (c *Contact) Get(field CanonicalField) string {
	if ptr := c.slot(field); ptr != nil {
		return *ptr
	}
	return ""
}

// Set assigns a canonical field. Unknown fields are ignored.
func (c *Contact) Set(field CanonicalField, value string) {
	if ptr := c.slot(field); ptr != nil {
		*ptr = value
	}
}

func (c *Contact) slot(field CanonicalField) *string {
	switch field {
	case FieldFirstName:
		return &c.FirstName
	case FieldLastName:
		return &c.LastName
	case FieldPrimaryEmail:
		return &c.PrimaryEmail
	case FieldSecondaryEmail:
		return &c.SecondaryEmail
	case FieldPrimaryPhone:
		return &c.PrimaryPhone
	case FieldSecondaryPhone:
		return &c.SecondaryPhone
	case FieldTitle:
		return &c.Title
	case FieldCompany:
		return &c.Company
	case FieldLinkedinURL:
		return &c.LinkedinURL
	case FieldWebsiteURL:
		return &c.WebsiteURL
	case FieldStreetAddress:
		return &c.StreetAddress
	case FieldCity:
		return &c.City
	case FieldState:
		return &c.State
	case FieldZipCode:
		return &c.ZipCode
	case FieldCountry:
		return &c.Country
	case FieldReferredBy:
		return &c.ReferredBy
	case FieldNotes:
		return &c.Notes
	case FieldExpertise:
		return &c.Expertise
	case FieldInterests:
		return &c.Interests
	}
	return nil
}

// Import source constants.
const (
	SourceVCard = "vcard"
	SourceCSV   = "csv"
)

// ImportBatch records one import run.
type ImportBatch struct {
	ID          string    `json:"id"`
	Source      string    `json:"source"`
	Filename    string    `json:"filename,omitempty"`
	TotalInFile int       `json:"total_in_file"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Unchanged   int       `json:"unchanged"`
	Skipped     int       `json:"skipped"`
	Conflicts   int       `json:"conflicts"`
	ImportedAt  time.Time `json:"imported_at"`
}

// Conflict review states.
const (
	ConflictPending  = "pending"
	ConflictAccepted = "accepted"
	ConflictRejected = "rejected"
)

// StoredConflict is a FieldConflict recorded by an import and awaiting review.
type StoredConflict struct {
	ID        uuid.UUID `json:"id"`
	BatchID   string    `json:"batch_id"`
	ContactID uuid.UUID `json:"contact_id"`
	FieldConflict
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}
