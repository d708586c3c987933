// ABOUTME: CSV column analysis and mapping collision resolution
// ABOUTME: Profiles each column's data, proposes a canonical field, and keeps one column per field
package csvimport

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harperreed/rolodex/models"
)

// Collision scoring bonuses by confidence.
const (
	highConfidenceBonus   = 1000
	mediumConfidenceBonus = 500
)

// Analysis is the column profile of one CSV file.
type Analysis struct {
	Columns          []models.ColumnAnalysis `json:"columns"`
	PopulatedColumns []models.ColumnAnalysis `json:"populated_columns"`
	EmptyColumns     []models.ColumnAnalysis `json:"empty_columns"`
	MappedColumns    []models.ColumnAnalysis `json:"mapped_columns"`
	UnmappedColumns  []models.ColumnAnalysis `json:"unmapped_columns"`
	TotalRows        int                     `json:"total_rows"`
}

// AnalyzeColumns classifies every header column against rows.
// Rows shorter than the header read as blank cells.
func AnalyzeColumns(header []string, rows [][]string) *Analysis {
	a := &Analysis{
		Columns:          make([]models.ColumnAnalysis, len(header)),
		PopulatedColumns: []models.ColumnAnalysis{},
		EmptyColumns:     []models.ColumnAnalysis{},
		MappedColumns:    []models.ColumnAnalysis{},
		UnmappedColumns:  []models.ColumnAnalysis{},
		TotalRows:        len(rows),
	}

	for i, h := range header {
		a.Columns[i] = analyzeColumn(i, h, rows)
	}

	resolveCollisions(a.Columns)

	for _, col := range a.Columns {
		if !col.HasData {
			a.EmptyColumns = append(a.EmptyColumns, col)
			continue
		}
		a.PopulatedColumns = append(a.PopulatedColumns, col)
		if col.SuggestedField != "" {
			a.MappedColumns = append(a.MappedColumns, col)
		} else {
			a.UnmappedColumns = append(a.UnmappedColumns, col)
		}
	}

	return a
}

func analyzeColumn(index int, header string, rows [][]string) models.ColumnAnalysis {
	col := models.ColumnAnalysis{
		Index:      index,
		Header:     strings.TrimSpace(header),
		Confidence: models.ConfidenceLow,
	}

	for _, row := range rows {
		v := cell(row, index)
		if v == "" {
			continue
		}
		if col.DataCount == 0 {
			col.SampleValue = v
		}
		col.DataCount++
	}
	col.HasData = col.DataCount > 0
	if len(rows) > 0 {
		col.Percentage = int(math.Round(float64(col.DataCount) * 100 / float64(len(rows))))
	}

	if IsSkipHeader(header) {
		col.Skipped = true
		return col
	}

	r, ok := MatchHeader(header)
	if !ok {
		return col
	}
	col.SuggestedField = r.Field
	col.Confidence = confidence(r.Priority, col.SampleValue != "")
	return col
}

func confidence(priority int, hasSample bool) models.Confidence {
	switch {
	case priority == PriorityStrong && hasSample:
		return models.ConfidenceHigh
	case priority == PriorityWeak || !hasSample:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// CollisionScore ranks competing columns for the same field.
func CollisionScore(col models.ColumnAnalysis) int {
	score := col.DataCount
	switch col.Confidence {
	case models.ConfidenceHigh:
		score += highConfidenceBonus
	case models.ConfidenceMedium:
		score += mediumConfidenceBonus
	}
	return score
}

// resolveCollisions keeps the best populated column for each field and
// demotes the rest. Ties go to the leftmost column.
func resolveCollisions(columns []models.ColumnAnalysis) {
	byField := make(map[models.CanonicalField][]int)
	var order []models.CanonicalField
	for i, col := range columns {
		if !col.HasData || col.Skipped || col.SuggestedField == "" {
			continue
		}
		if _, ok := byField[col.SuggestedField]; !ok {
			order = append(order, col.SuggestedField)
		}
		byField[col.SuggestedField] = append(byField[col.SuggestedField], i)
	}

	for _, field := range order {
		candidates := byField[field]
		if len(candidates) < 2 {
			continue
		}

		sort.SliceStable(candidates, func(a, b int) bool {
			return CollisionScore(columns[candidates[a]]) > CollisionScore(columns[candidates[b]])
		})

		winner := columns[candidates[0]]
		for _, idx := range candidates[1:] {
			log.Debug("column lost mapping collision",
				"field", field, "header", columns[idx].Header, "winner", winner.Header)
			columns[idx].DemotedFrom = field
			columns[idx].SuggestedField = ""
		}
	}
}

func cell(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}

// FinalMapping builds the column index to field mapping from the analysis
// and applies caller overrides keyed by column index. An empty override
// field unmaps the column. The returned unmapped list covers every populated
// column left without a field.
func FinalMapping(a *Analysis, overrides map[int]models.CanonicalField) (map[int]models.CanonicalField, []models.ColumnAnalysis) {
	mapping := make(map[int]models.CanonicalField, len(a.MappedColumns))
	for _, col := range a.MappedColumns {
		mapping[col.Index] = col.SuggestedField
	}

	indices := make([]int, 0, len(overrides))
	for idx := range overrides {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, idx := range indices {
		field := overrides[idx]
		if idx < 0 || idx >= len(a.Columns) {
			continue
		}
		if field == "" {
			delete(mapping, idx)
			continue
		}
		// An override claims the field from whichever column held it.
		for other, f := range mapping {
			if f == field && other != idx {
				delete(mapping, other)
			}
		}
		mapping[idx] = field
	}

	unmapped := []models.ColumnAnalysis{}
	for _, col := range a.PopulatedColumns {
		if _, ok := mapping[col.Index]; !ok {
			unmapped = append(unmapped, col)
		}
	}

	return mapping, unmapped
}
