// ABOUTME: CSV row to contact assembly
// ABOUTME: Applies the final column mapping with per-row URL rerouting and notes overflow
package csvimport

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rolodex/models"
	"github.com/oklog/ulid/v2"
)

// Options controls row building.
type Options struct {
	// FoldUnmapped appends every populated unmapped cell to notes as
	// "[Header: value]". When false those cells are dropped.
	FoldUnmapped bool
}

// BuildRow assembles one contact from a data row.
func BuildRow(row []string, mapping map[int]models.CanonicalField, unmapped []models.ColumnAnalysis, opts Options) *models.ParsedContact {
	pc := &models.ParsedContact{}

	for _, idx := range sortedIndices(mapping) {
		value := cell(row, idx)
		if value == "" {
			continue
		}
		assign(pc, mapping[idx], value)
	}

	if opts.FoldUnmapped {
		var extras []string
		for _, col := range unmapped {
			if v := cell(row, col.Index); v != "" {
				extras = append(extras, fmt.Sprintf("[%s: %s]", col.Header, v))
			}
		}
		if len(extras) > 0 {
			folded := strings.Join(extras, " ")
			if pc.Notes == "" {
				pc.Notes = folded
			} else {
				pc.Notes += "\n\n" + folded
			}
		}
	}

	return pc
}

// assign places value into field, rerouting URLs whose content disagrees
// with the column's mapping.
func assign(pc *models.ParsedContact, field models.CanonicalField, value string) {
	switch field {
	case models.FieldNotes:
		pc.AppendNote(value)
	case models.FieldWebsiteURL, models.FieldLinkedinURL:
		target := ClassifyURL(field, value)
		if current := pc.Get(target); current == "" || current == value {
			pc.Set(target, value)
			return
		}
		pc.AppendNote(fmt.Sprintf("[Additional %s: %s]", urlLabel(target), value))
	default:
		pc.Set(field, value)
	}
}

// ClassifyURL returns the URL field a value belongs in given the field its
// column was mapped to. Non-URL fields are returned unchanged.
func ClassifyURL(mapped models.CanonicalField, value string) models.CanonicalField {
	switch mapped {
	case models.FieldWebsiteURL:
		if models.IsLinkedInURL(value) {
			return models.FieldLinkedinURL
		}
	case models.FieldLinkedinURL:
		if !models.IsLinkedInURL(value) {
			return models.FieldWebsiteURL
		}
	}
	return mapped
}

func urlLabel(field models.CanonicalField) string {
	if field == models.FieldLinkedinURL {
		return "LinkedIn"
	}
	return "Website"
}

func sortedIndices(mapping map[int]models.CanonicalField) []int {
	indices := make([]int, 0, len(mapping))
	for idx := range mapping {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	return indices
}

// BatchResult is the CSV counterpart of a vCard parse result.
// len(Contacts)+len(Skipped) == TotalInFile.
type BatchResult struct {
	Contacts    []models.ParsedContact `json:"contacts"`
	Skipped     []models.SkippedEntry  `json:"skipped"`
	TotalInFile int                    `json:"total_in_file"`
}

// BuildContacts runs BuildRow over every row. Blank rows are skipped as
// EMPTY_ENTRY and rows without a first name as NO_NAME.
func BuildContacts(rows [][]string, mapping map[int]models.CanonicalField, unmapped []models.ColumnAnalysis, opts Options) *BatchResult {
	result := &BatchResult{
		Contacts:    []models.ParsedContact{},
		Skipped:     []models.SkippedEntry{},
		TotalInFile: len(rows),
	}
	entropy := ulid.DefaultEntropy()

	for i, row := range rows {
		if isBlankRow(row) {
			result.Skipped = append(result.Skipped, models.SkippedEntry{Index: i, Reason: models.SkipEmptyEntry})
			continue
		}

		pc := BuildRow(row, mapping, unmapped, opts)
		if !pc.HasRequiredFields() {
			log.Debug("skipping csv row without first name", "row", i)
			result.Skipped = append(result.Skipped, models.SkippedEntry{
				Index:   i,
				Reason:  models.SkipNoName,
				Preview: rowPreview(row),
			})
			continue
		}

		pc.TempID = ulid.MustNew(ulid.Now(), entropy).String()
		pc.SourceIndex = i
		result.Contacts = append(result.Contacts, *pc)
	}

	return result
}

func isBlankRow(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func rowPreview(row []string) string {
	var parts []string
	for _, v := range row {
		if v = strings.TrimSpace(v); v != "" {
			parts = append(parts, v)
		}
		if len(parts) == 3 {
			break
		}
	}
	s := strings.Join(parts, ", ")
	if r := []rune(s); len(r) > 60 {
		return string(r[:60]) + "..."
	}
	return s
}
