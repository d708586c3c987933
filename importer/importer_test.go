// ABOUTME: Tests for import orchestration
// ABOUTME: Runs vCard and CSV batches against an in-memory database
package importer

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/csvimport"
	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/phone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := sql.Open("sqlite3", ":memory:?_foreign_keys=on")
	require.NoError(t, err)
	database.SetMaxOpenConns(1)
	require.NoError(t, db.InitSchema(database))
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func vcards(cards ...[]string) []byte {
	var b strings.Builder
	for _, lines := range cards {
		b.WriteString("BEGIN:VCARD\r\nVERSION:4.0\r\n")
		for _, l := range lines {
			b.WriteString(l + "\r\n")
		}
		b.WriteString("END:VCARD\r\n")
	}
	return []byte(b.String())
}

var sampleVCF = vcards(
	[]string{"N:Doe;Jane;;;", "FN:Jane Doe", "EMAIL:jane@x.com", "TEL;TYPE=cell:(650) 253-0000", "ORG:Acme;R&D"},
	[]string{"N:Roe;John;;;", "FN:John Roe", "EMAIL:john@y.com"},
	[]string{"EMAIL:noname@example.com"},
	[]string{"FN:Jane Again", "EMAIL:JANE@x.com"},
)

func TestImportVCard(t *testing.T) {
	database := setupTestDB(t)
	im := New(database, phone.NewNormalizer("US"), Options{})

	summary, err := im.ImportVCard(context.Background(), sampleVCF, "contacts.vcf")
	require.NoError(t, err)

	assert.NotEmpty(t, summary.BatchID)
	assert.Equal(t, 4, summary.TotalInFile)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	require.Len(t, summary.Skipped, 2)
	assert.Empty(t, summary.Conflicts)

	jane, err := db.FindContactByEmail(database, "jane@x.com")
	require.NoError(t, err)
	require.NotNil(t, jane)
	assert.Equal(t, "Jane", jane.FirstName)
	assert.Equal(t, "+16502530000", jane.PrimaryPhone)
	assert.Equal(t, "Acme", jane.Company)

	batch, err := db.GetImportBatch(database, summary.BatchID)
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Equal(t, models.SourceVCard, batch.Source)
	assert.Equal(t, "contacts.vcf", batch.Filename)
	assert.Equal(t, 2, batch.Created)
	assert.Equal(t, 2, batch.Skipped)

	skips, err := db.GetImportSkips(database, summary.BatchID)
	require.NoError(t, err)
	assert.Len(t, skips, 2)
}

func TestImportVCardTwiceIsUnchanged(t *testing.T) {
	database := setupTestDB(t)
	im := New(database, nil, Options{})

	_, err := im.ImportVCard(context.Background(), sampleVCF, "contacts.vcf")
	require.NoError(t, err)

	summary, err := im.ImportVCard(context.Background(), sampleVCF, "contacts.vcf")
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 0, summary.Updated)
	assert.Equal(t, 2, summary.Unchanged)
	assert.Empty(t, summary.Conflicts)

	all, err := db.ListAllContacts(database)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	batches, err := db.ListImportBatches(database, 10)
	require.NoError(t, err)
	assert.Len(t, batches, 2)
}

func TestImportCSVMergesAndRecordsConflicts(t *testing.T) {
	database := setupTestDB(t)
	existing := &models.Contact{FirstName: "Jane", LastName: "Doe", PrimaryEmail: "jane@x.com", Company: "ACME Corp", PrimaryPhone: "+16502530000"}
	require.NoError(t, db.CreateContact(database, existing))

	csv := "First Name,Last Name,E-mail 1 - Value,Company,Phone,City\n" +
		"Jane,Doe,jane@x.com,Acme,(650) 253-0000,Chicago\n" +
		"Ann,Lee,ann@x.com,,,\n"

	im := New(database, phone.NewNormalizer("US"), Options{})
	summary, err := im.ImportCSV(context.Background(), strings.NewReader(csv), "export.csv", nil, csvimport.Options{FoldUnmapped: true})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Conflicts, 1)
	cc := summary.Conflicts[0]
	assert.Equal(t, existing.ID, cc.ContactID)
	assert.Equal(t, "Jane Doe", cc.DisplayName)
	require.Len(t, cc.Conflicts, 1)
	assert.Equal(t, models.FieldConflict{Field: models.FieldCompany, ExistingValue: "ACME Corp", IncomingValue: "Acme"}, cc.Conflicts[0])

	jane, err := db.GetContact(database, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME Corp", jane.Company)
	assert.Equal(t, "Chicago", jane.City)

	pending, err := db.ListConflicts(database, summary.BatchID, models.ConflictPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	resolved, err := im.Resolve(context.Background(), pending[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, "Acme", resolved.Company)

	jane, err = db.GetContact(database, existing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", jane.Company)

	_, err = im.Resolve(context.Background(), pending[0].ID, false)
	assert.Error(t, err)
}

func TestResolveReject(t *testing.T) {
	database := setupTestDB(t)
	existing := &models.Contact{FirstName: "Jane", PrimaryEmail: "jane@x.com", Title: "CEO"}
	require.NoError(t, db.CreateContact(database, existing))

	im := New(database, nil, Options{})
	summary, err := im.ImportCSV(context.Background(),
		strings.NewReader("First Name,Email,Title\nJane,jane@x.com,CTO\n"), "", nil, csvimport.Options{})
	require.NoError(t, err)
	require.Len(t, summary.Conflicts, 1)
	assert.Equal(t, 1, summary.Unchanged)

	pending, err := db.ListConflicts(database, summary.BatchID, models.ConflictPending)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	contact, err := im.Resolve(context.Background(), pending[0].ID, false)
	require.NoError(t, err)
	assert.Equal(t, "CEO", contact.Title)

	stored, err := db.GetConflict(database, pending[0].ID)
	require.NoError(t, err)
	assert.Equal(t, models.ConflictRejected, stored.Status)
}

func TestResolveUnknownConflict(t *testing.T) {
	im := New(setupTestDB(t), nil, Options{})

	_, err := im.Resolve(context.Background(), uuid.New(), true)
	assert.ErrorIs(t, err, ErrConflictNotFound)
}

func TestImportDryRun(t *testing.T) {
	database := setupTestDB(t)
	im := New(database, nil, Options{DryRun: true})

	summary, err := im.ImportVCard(context.Background(), sampleVCF, "contacts.vcf")
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Empty(t, summary.BatchID)
	assert.Equal(t, 2, summary.Created)

	all, err := db.ListAllContacts(database)
	require.NoError(t, err)
	assert.Empty(t, all)

	batches, err := db.ListImportBatches(database, 10)
	require.NoError(t, err)
	assert.Empty(t, batches)
}

func TestImportCSVDuplicateRowsMerge(t *testing.T) {
	database := setupTestDB(t)
	im := New(database, nil, Options{})

	csv := "First Name,Email,City,Notes\n" +
		"Jane,jane@x.com,,first\n" +
		"Jane,JANE@x.com,Chicago,second\n"

	summary, err := im.ImportCSV(context.Background(), strings.NewReader(csv), "", nil, csvimport.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)

	all, err := db.ListAllContacts(database)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Chicago", all[0].City)
	assert.Equal(t, "first\n\nsecond", all[0].Notes)
}

func TestImportCSVMatchesEmailAddedByMerge(t *testing.T) {
	database := setupTestDB(t)
	im := New(database, nil, Options{})
	ctx := context.Background()

	_, err := im.ImportCSV(ctx, strings.NewReader("First Name,Email\nJane,a@x.com\n"), "", nil, csvimport.Options{})
	require.NoError(t, err)

	csv := "First Name,Email,Work Email\n" +
		"Jane,a@x.com,c@x.com\n" +
		"Jane,c@x.com,\n"
	summary, err := im.ImportCSV(ctx, strings.NewReader(csv), "", nil, csvimport.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)

	all, err := db.ListAllContacts(database)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "a@x.com", all[0].PrimaryEmail)
	assert.Equal(t, "c@x.com", all[0].SecondaryEmail)
}

func TestImportMatchByName(t *testing.T) {
	database := setupTestDB(t)
	require.NoError(t, db.CreateContact(database, &models.Contact{FirstName: "Jane", LastName: "Doe"}))

	csv := "First Name,Last Name,Email\nDr. Jane,Doe,jane@x.com\n"

	byEmail := New(database, nil, Options{DryRun: true})
	summary, err := byEmail.ImportCSV(context.Background(), strings.NewReader(csv), "", nil, csvimport.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)

	byName := New(database, nil, Options{MatchByName: true})
	summary, err = byName.ImportCSV(context.Background(), strings.NewReader(csv), "", nil, csvimport.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	require.Len(t, summary.Conflicts, 1)
	assert.Equal(t, models.FieldFirstName, summary.Conflicts[0].Conflicts[0].Field)

	all, err := db.ListAllContacts(database)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "jane@x.com", all[0].PrimaryEmail)
}

func TestImportCSVOverrides(t *testing.T) {
	database := setupTestDB(t)
	im := New(database, nil, Options{})

	csv := "Given,Email\nJane,jane@x.com\n"

	summary, err := im.ImportCSV(context.Background(), strings.NewReader(csv), "", nil, csvimport.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	require.Len(t, summary.Skipped, 1)
	assert.Equal(t, models.SkipNoName, summary.Skipped[0].Reason)

	summary, err = im.ImportCSV(context.Background(), strings.NewReader(csv), "",
		map[string]string{"given": "first_name"}, csvimport.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Created)
}

func TestImportCSVBadInput(t *testing.T) {
	im := New(setupTestDB(t), nil, Options{})

	_, err := im.ImportCSV(context.Background(), strings.NewReader(""), "", nil, csvimport.Options{})
	assert.ErrorIs(t, err, csvimport.ErrNoHeader)

	_, err = im.ImportCSV(context.Background(), strings.NewReader("Given\nJane\n"), "",
		map[string]string{"Given": "nickname"}, csvimport.Options{})
	assert.Error(t, err)
}

func TestImportCanceled(t *testing.T) {
	im := New(setupTestDB(t), nil, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := im.ImportVCard(ctx, sampleVCF, "")
	assert.ErrorIs(t, err, context.Canceled)
}
