// ABOUTME: Import orchestration from parsed vCard and CSV batches into the database
// ABOUTME: Matches existing contacts, merges additively, and records conflicts for review
package importer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/harperreed/rolodex/csvimport"
	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/models"
	"github.com/harperreed/rolodex/phone"
	"github.com/harperreed/rolodex/reconcile"
	"github.com/harperreed/rolodex/vcardimport"
)

var (
	ErrConflictNotFound = errors.New("conflict not found")
	ErrContactNotFound  = errors.New("contact not found")
)

// Options controls how a batch is written.
type Options struct {
	// DryRun computes the summary without touching the database.
	DryRun bool
	// MatchByName falls back to normalized-name matching when no email matches.
	MatchByName bool
}

// Batch is the parsed output of either import path.
type Batch struct {
	Source      string
	Filename    string
	Contacts    []models.ParsedContact
	Skipped     []models.SkippedEntry
	TotalInFile int
}

// ContactConflicts groups the conflicts raised against one stored contact.
type ContactConflicts struct {
	ContactID   uuid.UUID              `json:"contact_id"`
	TempID      string                 `json:"temp_id"`
	DisplayName string                 `json:"display_name"`
	Conflicts   []models.FieldConflict `json:"conflicts"`
}

type Summary struct {
	BatchID     string                `json:"batch_id,omitempty"`
	Source      string                `json:"source"`
	Filename    string                `json:"filename,omitempty"`
	TotalInFile int                   `json:"total_in_file"`
	Created     int                   `json:"created"`
	Updated     int                   `json:"updated"`
	Unchanged   int                   `json:"unchanged"`
	Conflicts   []ContactConflicts    `json:"conflicts"`
	Skipped     []models.SkippedEntry `json:"skipped"`
	DryRun      bool                  `json:"dry_run,omitempty"`
}

type Importer struct {
	db       *sql.DB
	phones   *phone.Normalizer
	detector *reconcile.Detector
	opts     Options
}

// New creates an importer. A nil normalizer uses the default region.
func New(database *sql.DB, phones *phone.Normalizer, opts Options) *Importer {
	if phones == nil {
		phones = phone.NewNormalizer(phone.DefaultRegion)
	}
	return &Importer{
		db:       database,
		phones:   phones,
		detector: reconcile.NewDetector(phones),
		opts:     opts,
	}
}

// ImportVCard parses a vCard file and imports it.
func (im *Importer) ImportVCard(ctx context.Context, data []byte, filename string) (*Summary, error) {
	res := vcardimport.NewParser(im.phones).Parse(data)
	return im.Import(ctx, &Batch{
		Source:      models.SourceVCard,
		Filename:    filename,
		Contacts:    res.Contacts,
		Skipped:     res.Skipped,
		TotalInFile: res.TotalInFile,
	})
}

// ImportCSV analyzes a CSV export, applies column overrides, and imports it.
// columnMap overrides mappings as accepted by csvimport.ParseOverrides.
func (im *Importer) ImportCSV(ctx context.Context, r io.Reader, filename string, columnMap map[string]string, opts csvimport.Options) (*Summary, error) {
	header, rows, err := csvimport.ReadAll(r)
	if err != nil {
		return nil, err
	}
	overrides, err := csvimport.ParseOverrides(header, columnMap)
	if err != nil {
		return nil, err
	}

	analysis := csvimport.AnalyzeColumns(header, rows)
	mapping, unmapped := csvimport.FinalMapping(analysis, overrides)
	res := csvimport.BuildContacts(rows, mapping, unmapped, opts)

	return im.Import(ctx, &Batch{
		Source:      models.SourceCSV,
		Filename:    filename,
		Contacts:    res.Contacts,
		Skipped:     res.Skipped,
		TotalInFile: res.TotalInFile,
	})
}

// Import writes a parsed batch. New people are created, known people get an
// additive merge, and disagreeing fields are recorded as pending conflicts.
func (im *Importer) Import(ctx context.Context, batch *Batch) (*Summary, error) {
	existing, err := db.ListAllContacts(im.db)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	matcher := reconcile.NewContactMatcher(existing, im.opts.MatchByName)

	summary := &Summary{
		Source:      batch.Source,
		Filename:    batch.Filename,
		TotalInFile: batch.TotalInFile,
		Conflicts:   []ContactConflicts{},
		Skipped:     batch.Skipped,
		DryRun:      im.opts.DryRun,
	}
	if summary.Skipped == nil {
		summary.Skipped = []models.SkippedEntry{}
	}

	var stored []models.StoredConflict

	for i := range batch.Contacts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pc := batch.Contacts[i]
		pc.PrimaryPhone = im.phones.NormalizeOrRaw(pc.PrimaryPhone)
		pc.SecondaryPhone = im.phones.NormalizeOrRaw(pc.SecondaryPhone)

		match, found := matcher.FindMatch(&pc)
		if !found {
			contact, err := im.createContact(&pc)
			if err != nil {
				return nil, err
			}
			matcher.AddContact(contact)
			summary.Created++
			continue
		}

		conflicts, changed, err := im.mergeContact(match, &pc)
		if err != nil {
			return nil, err
		}
		if changed {
			// Emails picked up by the merge must match later rows too.
			matcher.AddContact(match)
			summary.Updated++
		} else {
			summary.Unchanged++
		}

		if len(conflicts) == 0 {
			continue
		}
		summary.Conflicts = append(summary.Conflicts, ContactConflicts{
			ContactID:   match.ID,
			TempID:      pc.TempID,
			DisplayName: pc.DisplayName(),
			Conflicts:   conflicts,
		})
		for _, fc := range conflicts {
			stored = append(stored, models.StoredConflict{ContactID: match.ID, FieldConflict: fc})
		}
	}

	if im.opts.DryRun {
		return summary, nil
	}

	record := &models.ImportBatch{
		Source:      batch.Source,
		Filename:    batch.Filename,
		TotalInFile: batch.TotalInFile,
		Created:     summary.Created,
		Updated:     summary.Updated,
		Unchanged:   summary.Unchanged,
		Skipped:     len(summary.Skipped),
		Conflicts:   len(stored),
	}
	if err := db.RecordImport(im.db, record, summary.Skipped, stored); err != nil {
		return nil, fmt.Errorf("failed to record import: %w", err)
	}
	summary.BatchID = record.ID

	log.Info("import finished",
		"batch", record.ID, "source", batch.Source,
		"created", summary.Created, "updated", summary.Updated,
		"unchanged", summary.Unchanged, "skipped", len(summary.Skipped), "conflicts", len(stored))

	return summary, nil
}

func (im *Importer) createContact(pc *models.ParsedContact) (*models.Contact, error) {
	contact := &models.Contact{}
	for _, field := range models.CanonicalFields {
		contact.Set(field, pc.Get(field))
	}

	if im.opts.DryRun {
		return contact, nil
	}
	if err := db.CreateContact(im.db, contact); err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return contact, nil
}

// mergeContact updates match in place so the matcher cache stays current.
func (im *Importer) mergeContact(match *models.Contact, pc *models.ParsedContact) ([]models.FieldConflict, bool, error) {
	fresh := *match
	if !im.opts.DryRun && match.ID != uuid.Nil {
		// Load fresh copy from database to avoid working with stale cache data
		loaded, err := db.GetContact(im.db, match.ID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load contact: %w", err)
		}
		if loaded != nil {
			fresh = *loaded
		}
	}

	conflicts := im.detector.Detect(pc, &fresh)
	changed := reconcile.Merge(&fresh, pc, nil)

	if len(changed) > 0 && !im.opts.DryRun {
		if err := db.UpdateContact(im.db, fresh.ID, &fresh); err != nil {
			return nil, false, fmt.Errorf("failed to update contact: %w", err)
		}
	}

	*match = fresh
	return conflicts, len(changed) > 0, nil
}

// Resolve applies or discards a pending conflict. Accepting writes the
// incoming value onto the stored contact.
func (im *Importer) Resolve(ctx context.Context, conflictID uuid.UUID, accept bool) (*models.Contact, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	conflict, err := db.GetConflict(im.db, conflictID)
	if err != nil {
		return nil, err
	}
	if conflict == nil {
		return nil, ErrConflictNotFound
	}

	contact, err := db.GetContact(im.db, conflict.ContactID)
	if err != nil {
		return nil, err
	}
	if contact == nil {
		return nil, ErrContactNotFound
	}

	status := models.ConflictRejected
	if accept {
		status = models.ConflictAccepted
	}
	if err := db.SetConflictStatus(im.db, conflictID, status); err != nil {
		return nil, err
	}

	if !accept {
		return contact, nil
	}

	incoming := &models.ParsedContact{}
	incoming.Set(conflict.Field, conflict.IncomingValue)
	if changed := reconcile.Merge(contact, incoming, []models.CanonicalField{conflict.Field}); len(changed) > 0 {
		if err := db.UpdateContact(im.db, contact.ID, contact); err != nil {
			return nil, err
		}
	}

	return contact, nil
}
