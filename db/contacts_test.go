// ABOUTME: Tests for contact CRUD operations
// ABOUTME: Uses an in-memory SQLite database
package db

import (
	"testing"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndGetContact(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{
		FirstName:      "Jane",
		LastName:       "Doe",
		PrimaryEmail:   "jane@x.com",
		SecondaryEmail: "jane@work.com",
		PrimaryPhone:   "+16502530000",
		Company:        "Acme",
		LinkedinURL:    "https://linkedin.com/in/jane",
		City:           "Chicago",
		Notes:          "met at conf",
		Expertise:      "go",
	}
	require.NoError(t, CreateContact(database, contact))
	assert.NotEqual(t, uuid.Nil, contact.ID)
	assert.False(t, contact.CreatedAt.IsZero())

	got, err := GetContact(database, contact.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, contact.ID, got.ID)
	for _, f := range append(models.CanonicalFields, models.FieldExpertise, models.FieldInterests) {
		assert.Equal(t, contact.Get(f), got.Get(f), "field %s", f)
	}
}

func TestGetContactNotFound(t *testing.T) {
	database := setupTestDB(t)

	got, err := GetContact(database, uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindContactByEmail(t *testing.T) {
	database := setupTestDB(t)

	jane := &models.Contact{FirstName: "Jane", PrimaryEmail: "Jane@X.com"}
	bob := &models.Contact{FirstName: "Bob", PrimaryEmail: "bob@x.com", SecondaryEmail: "bob@work.com"}
	require.NoError(t, CreateContact(database, jane))
	require.NoError(t, CreateContact(database, bob))

	got, err := FindContactByEmail(database, " jane@x.COM")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, jane.ID, got.ID)

	got, err = FindContactByEmail(database, "BOB@work.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, bob.ID, got.ID)

	got, err = FindContactByEmail(database, "nobody@x.com")
	assert.NoError(t, err)
	assert.Nil(t, got)

	got, err = FindContactByEmail(database, "")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestFindContacts(t *testing.T) {
	database := setupTestDB(t)

	require.NoError(t, CreateContact(database, &models.Contact{FirstName: "Jane", LastName: "Doe", Company: "Acme"}))
	require.NoError(t, CreateContact(database, &models.Contact{FirstName: "John", LastName: "Roe", PrimaryEmail: "john@globex.com"}))
	require.NoError(t, CreateContact(database, &models.Contact{FirstName: "Ann", LastName: "Lee"}))

	all, err := FindContacts(database, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := FindContacts(database, "jane doe", 10)
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "Jane", byName[0].FirstName)

	byCompany, err := FindContacts(database, "ACME", 10)
	require.NoError(t, err)
	require.Len(t, byCompany, 1)

	byEmail, err := FindContacts(database, "globex", 10)
	require.NoError(t, err)
	require.Len(t, byEmail, 1)
	assert.Equal(t, "John", byEmail[0].FirstName)

	limited, err := FindContacts(database, "", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	none, err := FindContacts(database, "zzz", 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestListAllContacts(t *testing.T) {
	database := setupTestDB(t)

	for _, name := range []string{"A", "B", "C"} {
		require.NoError(t, CreateContact(database, &models.Contact{FirstName: name}))
	}

	all, err := ListAllContacts(database)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateContact(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{FirstName: "Jane"}
	require.NoError(t, CreateContact(database, contact))

	contact.Company = "Acme"
	contact.Notes = "updated"
	require.NoError(t, UpdateContact(database, contact.ID, contact))

	got, err := GetContact(database, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Company)
	assert.Equal(t, "updated", got.Notes)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestDeleteContact(t *testing.T) {
	database := setupTestDB(t)

	contact := &models.Contact{FirstName: "Jane"}
	require.NoError(t, CreateContact(database, contact))

	batch := &models.ImportBatch{Source: models.SourceCSV, TotalInFile: 1}
	conflicts := []models.StoredConflict{{
		ContactID:     contact.ID,
		FieldConflict: models.FieldConflict{Field: models.FieldCompany, ExistingValue: "A", IncomingValue: "B"},
	}}
	require.NoError(t, RecordImport(database, batch, nil, conflicts))

	require.NoError(t, DeleteContact(database, contact.ID))

	got, err := GetContact(database, contact.ID)
	assert.NoError(t, err)
	assert.Nil(t, got)

	left, err := ListConflicts(database, batch.ID, "")
	require.NoError(t, err)
	assert.Empty(t, left)
}
