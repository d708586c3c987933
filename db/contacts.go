// ABOUTME: Contact database operations
// ABOUTME: Handles CRUD operations and lookups by email and name
package db

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
)

const contactColumns = `id, first_name, last_name, primary_email, secondary_email,
	primary_phone, secondary_phone, title, company, linkedin_url, website_url,
	street_address, city, state, zip_code, country, referred_by,
	notes, expertise, interests, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanContact(s scanner) (*models.Contact, error) {
	c := &models.Contact{}
	err := s.Scan(
		&c.ID,
		&c.FirstName,
		&c.LastName,
		&c.PrimaryEmail,
		&c.SecondaryEmail,
		&c.PrimaryPhone,
		&c.SecondaryPhone,
		&c.Title,
		&c.Company,
		&c.LinkedinURL,
		&c.WebsiteURL,
		&c.StreetAddress,
		&c.City,
		&c.State,
		&c.ZipCode,
		&c.Country,
		&c.ReferredBy,
		&c.Notes,
		&c.Expertise,
		&c.Interests,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func CreateContact(db *sql.DB, contact *models.Contact) error {
	contact.ID = uuid.New()
	now := time.Now()
	contact.CreatedAt = now
	contact.UpdatedAt = now

	_, err := db.Exec(`
		INSERT INTO contacts (`+contactColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, contact.ID.String(), contact.FirstName, contact.LastName, contact.PrimaryEmail, contact.SecondaryEmail,
		contact.PrimaryPhone, contact.SecondaryPhone, contact.Title, contact.Company, contact.LinkedinURL, contact.WebsiteURL,
		contact.StreetAddress, contact.City, contact.State, contact.ZipCode, contact.Country, contact.ReferredBy,
		contact.Notes, contact.Expertise, contact.Interests, contact.CreatedAt, contact.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contact: %w", err)
	}

	return nil
}

func GetContact(db *sql.DB, id uuid.UUID) (*models.Contact, error) {
	row := db.QueryRow(`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id.String())

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}

	return contact, nil
}

// FindContactByEmail matches either email slot, ignoring case.
func FindContactByEmail(db *sql.DB, email string) (*models.Contact, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, nil
	}

	row := db.QueryRow(`
		SELECT `+contactColumns+`
		FROM contacts
		WHERE LOWER(primary_email) = ? OR LOWER(secondary_email) = ?
		ORDER BY created_at ASC
		LIMIT 1
	`, email, email)

	contact, err := scanContact(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact by email: %w", err)
	}

	return contact, nil
}

// FindContacts searches names, emails, and company. An empty query lists
// the most recently created contacts.
func FindContacts(db *sql.DB, query string, limit int) ([]models.Contact, error) {
	if limit <= 0 {
		limit = 10
	}

	var rows *sql.Rows
	var err error

	if query != "" {
		searchPattern := "%" + strings.ToLower(query) + "%"
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			WHERE LOWER(first_name || ' ' || last_name) LIKE ?
				OR LOWER(primary_email) LIKE ?
				OR LOWER(secondary_email) LIKE ?
				OR LOWER(company) LIKE ?
			ORDER BY created_at DESC
			LIMIT ?
		`, searchPattern, searchPattern, searchPattern, searchPattern, limit)
	} else {
		rows, err = db.Query(`
			SELECT `+contactColumns+`
			FROM contacts
			ORDER BY created_at DESC
			LIMIT ?
		`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

// ListAllContacts loads every contact in creation order.
func ListAllContacts(db *sql.DB) ([]models.Contact, error) {
	rows, err := db.Query(`SELECT ` + contactColumns + ` FROM contacts ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	defer rows.Close()

	return collectContacts(rows)
}

func collectContacts(rows *sql.Rows) ([]models.Contact, error) {
	contacts := []models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, *c)
	}

	return contacts, rows.Err()
}

func UpdateContact(db *sql.DB, id uuid.UUID, updates *models.Contact) error {
	updates.UpdatedAt = time.Now()

	_, err := db.Exec(`
		UPDATE contacts
		SET first_name = ?, last_name = ?, primary_email = ?, secondary_email = ?,
			primary_phone = ?, secondary_phone = ?, title = ?, company = ?,
			linkedin_url = ?, website_url = ?, street_address = ?, city = ?,
			state = ?, zip_code = ?, country = ?, referred_by = ?,
			notes = ?, expertise = ?, interests = ?, updated_at = ?
		WHERE id = ?
	`, updates.FirstName, updates.LastName, updates.PrimaryEmail, updates.SecondaryEmail,
		updates.PrimaryPhone, updates.SecondaryPhone, updates.Title, updates.Company,
		updates.LinkedinURL, updates.WebsiteURL, updates.StreetAddress, updates.City,
		updates.State, updates.ZipCode, updates.Country, updates.ReferredBy,
		updates.Notes, updates.Expertise, updates.Interests, updates.UpdatedAt, id.String())
	if err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}

	return nil
}

func DeleteContact(db *sql.DB, id uuid.UUID) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`DELETE FROM import_conflicts WHERE contact_id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete conflicts: %w", err)
	}

	_, err = tx.Exec(`DELETE FROM contacts WHERE id = ?`, id.String())
	if err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}

	return tx.Commit()
}
