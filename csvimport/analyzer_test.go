// ABOUTME: Tests for CSV column profiling and collision resolution
// ABOUTME: Uses small in-memory header and row fixtures
package csvimport

import (
	"testing"

	"github.com/harperreed/rolodex/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func googleExport() ([]string, [][]string) {
	header := []string{
		"First Name", "Last Name", "E-mail 1 - Type", "E-mail 1 - Value",
		"Phone", "Mobile", "Website", "Notes", "Nickname", "Fax",
	}
	rows := [][]string{
		{"Jane", "Doe", "* Home", "jane@x.com", "", "650-253-0000", "https://jane.dev", "met at conf", "JD", ""},
		{"John", "Roe", "Work", "john@y.com", "202-456-1111", "212-736-5000", "", "", "", ""},
		{"Ann", "", "", "", "", "415-555-0100", "", "", "", ""},
	}
	return header, rows
}

func TestAnalyzeColumnsEmailValueColumn(t *testing.T) {
	header := []string{"E-mail 1 - Value"}
	rows := [][]string{{"jane@x.com"}}

	a := AnalyzeColumns(header, rows)

	require.Len(t, a.Columns, 1)
	col := a.Columns[0]
	assert.Equal(t, models.FieldPrimaryEmail, col.SuggestedField)
	assert.Equal(t, models.ConfidenceHigh, col.Confidence)
	assert.Equal(t, "jane@x.com", col.SampleValue)
	assert.Equal(t, 1, col.DataCount)
	assert.Equal(t, 100, col.Percentage)
	assert.Len(t, a.MappedColumns, 1)
}

func TestAnalyzeColumnsProfile(t *testing.T) {
	header, rows := googleExport()
	a := AnalyzeColumns(header, rows)

	assert.Equal(t, 3, a.TotalRows)
	require.Len(t, a.Columns, len(header))

	first := a.Columns[0]
	assert.Equal(t, 3, first.DataCount)
	assert.Equal(t, 100, first.Percentage)
	assert.Equal(t, "Jane", first.SampleValue)

	last := a.Columns[1]
	assert.Equal(t, 2, last.DataCount)
	assert.Equal(t, 67, last.Percentage)

	notes := a.Columns[7]
	assert.Equal(t, 33, notes.Percentage)

	typeCol := a.Columns[2]
	assert.True(t, typeCol.Skipped)
	assert.Empty(t, typeCol.SuggestedField)
	assert.Equal(t, models.ConfidenceLow, typeCol.Confidence)

	nick := a.Columns[8]
	assert.Empty(t, nick.SuggestedField)
	assert.Equal(t, models.ConfidenceLow, nick.Confidence)

	fax := a.Columns[9]
	assert.False(t, fax.HasData)
	assert.Equal(t, 0, fax.Percentage)
}

func TestAnalyzeColumnsPartitions(t *testing.T) {
	header, rows := googleExport()
	a := AnalyzeColumns(header, rows)

	assert.Equal(t, len(a.Columns), len(a.PopulatedColumns)+len(a.EmptyColumns))
	assert.Equal(t, len(a.PopulatedColumns), len(a.MappedColumns)+len(a.UnmappedColumns))

	for _, col := range a.EmptyColumns {
		assert.False(t, col.HasData)
	}
	for _, col := range a.MappedColumns {
		assert.NotEmpty(t, col.SuggestedField)
		assert.False(t, col.Skipped)
	}
	for _, col := range a.UnmappedColumns {
		assert.Empty(t, col.SuggestedField)
	}

	var unmappedHeaders []string
	for _, col := range a.UnmappedColumns {
		unmappedHeaders = append(unmappedHeaders, col.Header)
	}
	assert.ElementsMatch(t, []string{"E-mail 1 - Type", "Phone", "Nickname"}, unmappedHeaders)
}

func TestAnalyzeColumnsCollisionByDataCount(t *testing.T) {
	header, rows := googleExport()
	a := AnalyzeColumns(header, rows)

	phone := a.Columns[4]
	mobile := a.Columns[5]

	assert.Equal(t, models.FieldPrimaryPhone, mobile.SuggestedField)
	assert.Empty(t, mobile.DemotedFrom)

	assert.Empty(t, phone.SuggestedField)
	assert.Equal(t, models.FieldPrimaryPhone, phone.DemotedFrom)
	assert.Contains(t, a.UnmappedColumns, phone)
}

func TestAnalyzeColumnsCollisionTieGoesLeft(t *testing.T) {
	header := []string{"Phone", "Mobile"}
	rows := [][]string{
		{"650-253-0000", "202-456-1111"},
		{"212-736-5000", "415-555-0100"},
	}

	a := AnalyzeColumns(header, rows)

	assert.Equal(t, models.FieldPrimaryPhone, a.Columns[0].SuggestedField)
	assert.Empty(t, a.Columns[1].SuggestedField)
	assert.Equal(t, models.FieldPrimaryPhone, a.Columns[1].DemotedFrom)
	require.Len(t, a.UnmappedColumns, 1)
	assert.Equal(t, "Mobile", a.UnmappedColumns[0].Header)
}

func TestAnalyzeColumnsConfidenceOutranksCount(t *testing.T) {
	header := []string{"Emails", "Email"}
	rows := [][]string{
		{"a@x.com", ""},
		{"b@x.com", ""},
		{"c@x.com", "c@y.com"},
	}

	a := AnalyzeColumns(header, rows)

	assert.Equal(t, models.ConfidenceMedium, a.Columns[0].Confidence)
	assert.Equal(t, models.ConfidenceHigh, a.Columns[1].Confidence)
	assert.Equal(t, models.FieldPrimaryEmail, a.Columns[1].SuggestedField)
	assert.Equal(t, models.FieldPrimaryEmail, a.Columns[0].DemotedFrom)
}

func TestAnalyzeColumnsOneColumnPerField(t *testing.T) {
	header := []string{"Phone", "Mobile", "Cell", "Telephone", "Email", "E-mail Address"}
	rows := [][]string{
		{"1", "2", "", "4", "a@x.com", "b@x.com"},
		{"", "2", "3", "", "", "c@x.com"},
	}

	a := AnalyzeColumns(header, rows)

	seen := map[models.CanonicalField]models.ColumnAnalysis{}
	for _, col := range a.MappedColumns {
		_, dup := seen[col.SuggestedField]
		assert.False(t, dup, "field %s mapped twice", col.SuggestedField)
		seen[col.SuggestedField] = col
	}

	// Every demoted column scores no higher than the winner it lost to.
	for _, col := range a.Columns {
		if col.DemotedFrom == "" {
			continue
		}
		winner, ok := seen[col.DemotedFrom]
		require.True(t, ok)
		assert.GreaterOrEqual(t, CollisionScore(winner), CollisionScore(col))
		if CollisionScore(winner) == CollisionScore(col) {
			assert.Less(t, winner.Index, col.Index)
		}
	}

	assert.Equal(t, "Mobile", seen[models.FieldPrimaryPhone].Header)
	assert.Equal(t, "E-mail Address", seen[models.FieldPrimaryEmail].Header)
}

func TestAnalyzeColumnsDeterministic(t *testing.T) {
	header, rows := googleExport()
	assert.Equal(t, AnalyzeColumns(header, rows), AnalyzeColumns(header, rows))
}

func TestAnalyzeColumnsEmptyColumnsNeverCollide(t *testing.T) {
	header := []string{"Email", "E-mail 1 - Value"}
	rows := [][]string{{"", "a@x.com"}}

	a := AnalyzeColumns(header, rows)

	empty := a.Columns[0]
	assert.False(t, empty.HasData)
	assert.Equal(t, models.FieldPrimaryEmail, empty.SuggestedField)
	assert.Equal(t, models.ConfidenceMedium, empty.Confidence)
	assert.Empty(t, empty.DemotedFrom)
	assert.Contains(t, a.EmptyColumns, empty)

	require.Len(t, a.MappedColumns, 1)
	assert.Equal(t, 1, a.MappedColumns[0].Index)
}

func TestAnalyzeColumnsNoRows(t *testing.T) {
	a := AnalyzeColumns([]string{"First Name", "Email"}, nil)

	assert.Equal(t, 0, a.TotalRows)
	assert.Len(t, a.EmptyColumns, 2)
	assert.Empty(t, a.PopulatedColumns)
	for _, col := range a.Columns {
		assert.Equal(t, 0, col.Percentage)
	}
}

func TestAnalyzeColumnsShortRows(t *testing.T) {
	header := []string{"First Name", "Last Name", "Email"}
	rows := [][]string{{"Jane"}, {"John", "Roe", "john@y.com", "extra"}}

	a := AnalyzeColumns(header, rows)

	assert.Equal(t, 2, a.Columns[0].DataCount)
	assert.Equal(t, 1, a.Columns[1].DataCount)
	assert.Equal(t, 1, a.Columns[2].DataCount)
}

func TestCollisionScore(t *testing.T) {
	assert.Equal(t, 1005, CollisionScore(models.ColumnAnalysis{DataCount: 5, Confidence: models.ConfidenceHigh}))
	assert.Equal(t, 505, CollisionScore(models.ColumnAnalysis{DataCount: 5, Confidence: models.ConfidenceMedium}))
	assert.Equal(t, 5, CollisionScore(models.ColumnAnalysis{DataCount: 5, Confidence: models.ConfidenceLow}))
}

func TestFinalMappingDefaults(t *testing.T) {
	header, rows := googleExport()
	a := AnalyzeColumns(header, rows)

	mapping, unmapped := FinalMapping(a, nil)

	assert.Equal(t, map[int]models.CanonicalField{
		0: models.FieldFirstName,
		1: models.FieldLastName,
		3: models.FieldPrimaryEmail,
		5: models.FieldPrimaryPhone,
		6: models.FieldWebsiteURL,
		7: models.FieldNotes,
	}, mapping)
	assert.Len(t, unmapped, 3)
}

func TestFinalMappingOverrides(t *testing.T) {
	header, rows := googleExport()
	a := AnalyzeColumns(header, rows)

	mapping, unmapped := FinalMapping(a, map[int]models.CanonicalField{
		4:  models.FieldSecondaryPhone,
		7:  "",
		8:  models.FieldFirstName,
		42: models.FieldCity,
	})

	assert.Equal(t, models.FieldSecondaryPhone, mapping[4])
	assert.Equal(t, models.FieldFirstName, mapping[8])
	_, ok := mapping[0]
	assert.False(t, ok, "override should claim first_name from column 0")
	_, ok = mapping[7]
	assert.False(t, ok)
	_, ok = mapping[42]
	assert.False(t, ok)

	var headers []string
	for _, col := range unmapped {
		headers = append(headers, col.Header)
	}
	assert.ElementsMatch(t, []string{"First Name", "E-mail 1 - Type", "Notes"}, headers)
}
