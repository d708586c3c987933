// ABOUTME: Database operations for import_batches, import_skips, and import_conflicts
// ABOUTME: Records each import run with its skipped entries and conflicts awaiting review
package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/harperreed/rolodex/models"
	"github.com/oklog/ulid/v2"
)

// RecordImport stores a batch with its skipped entries and pending conflicts
// in one transaction. Empty IDs and timestamps are filled in.
func RecordImport(db *sql.DB, batch *models.ImportBatch, skipped []models.SkippedEntry, conflicts []models.StoredConflict) error {
	if batch.ID == "" {
		batch.ID = ulid.Make().String()
	}
	if batch.ImportedAt.IsZero() {
		batch.ImportedAt = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback() // Safe even after commit
	}()

	_, err = tx.Exec(`
		INSERT INTO import_batches (id, source, filename, total_in_file, created, updated, unchanged, skipped, conflicts, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, batch.ID, batch.Source, batch.Filename, batch.TotalInFile, batch.Created, batch.Updated,
		batch.Unchanged, batch.Skipped, batch.Conflicts, batch.ImportedAt)
	if err != nil {
		return fmt.Errorf("failed to insert import batch: %w", err)
	}

	for _, s := range skipped {
		_, err = tx.Exec(`
			INSERT INTO import_skips (batch_id, source_index, reason, preview)
			VALUES (?, ?, ?, ?)
		`, batch.ID, s.Index, string(s.Reason), s.Preview)
		if err != nil {
			return fmt.Errorf("failed to insert import skip: %w", err)
		}
	}

	for i := range conflicts {
		c := &conflicts[i]
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
		c.BatchID = batch.ID
		c.Status = models.ConflictPending
		c.CreatedAt = batch.ImportedAt
		_, err = tx.Exec(`
			INSERT INTO import_conflicts (id, batch_id, contact_id, field, existing_value, incoming_value, status, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, c.ID.String(), c.BatchID, c.ContactID.String(), string(c.Field), c.ExistingValue, c.IncomingValue, c.Status, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert import conflict: %w", err)
		}
	}

	return tx.Commit()
}

// GetImportBatch returns nil when the batch does not exist.
func GetImportBatch(db *sql.DB, id string) (*models.ImportBatch, error) {
	var b models.ImportBatch
	err := db.QueryRow(`
		SELECT id, source, filename, total_in_file, created, updated, unchanged, skipped, conflicts, imported_at
		FROM import_batches WHERE id = ?
	`, id).Scan(&b.ID, &b.Source, &b.Filename, &b.TotalInFile, &b.Created, &b.Updated,
		&b.Unchanged, &b.Skipped, &b.Conflicts, &b.ImportedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get import batch: %w", err)
	}

	return &b, nil
}

// ListImportBatches returns the most recent imports first.
func ListImportBatches(db *sql.DB, limit int) ([]models.ImportBatch, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := db.Query(`
		SELECT id, source, filename, total_in_file, created, updated, unchanged, skipped, conflicts, imported_at
		FROM import_batches
		ORDER BY imported_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import batches: %w", err)
	}
	defer rows.Close()

	batches := []models.ImportBatch{}
	for rows.Next() {
		var b models.ImportBatch
		if err := rows.Scan(&b.ID, &b.Source, &b.Filename, &b.TotalInFile, &b.Created, &b.Updated,
			&b.Unchanged, &b.Skipped, &b.Conflicts, &b.ImportedAt); err != nil {
			return nil, fmt.Errorf("failed to scan import batch: %w", err)
		}
		batches = append(batches, b)
	}

	return batches, rows.Err()
}

func GetImportSkips(db *sql.DB, batchID string) ([]models.SkippedEntry, error) {
	rows, err := db.Query(`
		SELECT source_index, reason, preview
		FROM import_skips
		WHERE batch_id = ?
		ORDER BY source_index ASC
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("failed to get import skips: %w", err)
	}
	defer rows.Close()

	skips := []models.SkippedEntry{}
	for rows.Next() {
		var s models.SkippedEntry
		var reason string
		if err := rows.Scan(&s.Index, &reason, &s.Preview); err != nil {
			return nil, fmt.Errorf("failed to scan import skip: %w", err)
		}
		s.Reason = models.SkipReason(reason)
		skips = append(skips, s)
	}

	return skips, rows.Err()
}

const conflictColumns = `id, batch_id, contact_id, field, existing_value, incoming_value, status, created_at, resolved_at`

func scanConflict(s scanner) (*models.StoredConflict, error) {
	var c models.StoredConflict
	var field string
	var resolvedAt sql.NullTime
	if err := s.Scan(&c.ID, &c.BatchID, &c.ContactID, &field, &c.ExistingValue, &c.IncomingValue,
		&c.Status, &c.CreatedAt, &resolvedAt); err != nil {
		return nil, err
	}
	c.Field = models.CanonicalField(field)
	if resolvedAt.Valid {
		c.ResolvedAt = &resolvedAt.Time
	}
	return &c, nil
}

// ListConflicts filters by batch and status. Empty filters match everything.
func ListConflicts(db *sql.DB, batchID, status string) ([]models.StoredConflict, error) {
	rows, err := db.Query(`
		SELECT `+conflictColumns+`
		FROM import_conflicts
		WHERE (? = '' OR batch_id = ?) AND (? = '' OR status = ?)
		ORDER BY created_at ASC, contact_id ASC, field ASC
	`, batchID, batchID, status, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}
	defer rows.Close()

	conflicts := []models.StoredConflict{}
	for rows.Next() {
		c, err := scanConflict(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan conflict: %w", err)
		}
		conflicts = append(conflicts, *c)
	}

	return conflicts, rows.Err()
}

func GetConflict(db *sql.DB, id uuid.UUID) (*models.StoredConflict, error) {
	row := db.QueryRow(`SELECT `+conflictColumns+` FROM import_conflicts WHERE id = ?`, id.String())

	c, err := scanConflict(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get conflict: %w", err)
	}

	return c, nil
}

// SetConflictStatus marks a pending conflict accepted or rejected.
func SetConflictStatus(db *sql.DB, id uuid.UUID, status string) error {
	res, err := db.Exec(`
		UPDATE import_conflicts
		SET status = ?, resolved_at = ?
		WHERE id = ? AND status = 'pending'
	`, status, time.Now(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update conflict status: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update conflict status: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("conflict %s is not pending", id)
	}

	return nil
}
