// ABOUTME: Database schema definitions
// ABOUTME: Contacts keyed on the canonical field set plus import audit tables
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS contacts (
	id TEXT PRIMARY KEY,
	first_name TEXT NOT NULL,
	last_name TEXT NOT NULL DEFAULT '',
	primary_email TEXT NOT NULL DEFAULT '',
	secondary_email TEXT NOT NULL DEFAULT '',
	primary_phone TEXT NOT NULL DEFAULT '',
	secondary_phone TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	company TEXT NOT NULL DEFAULT '',
	linkedin_url TEXT NOT NULL DEFAULT '',
	website_url TEXT NOT NULL DEFAULT '',
	street_address TEXT NOT NULL DEFAULT '',
	city TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	zip_code TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	referred_by TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	expertise TEXT NOT NULL DEFAULT '',
	interests TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_contacts_primary_email ON contacts(LOWER(primary_email));
CREATE INDEX IF NOT EXISTS idx_contacts_secondary_email ON contacts(LOWER(secondary_email));
CREATE INDEX IF NOT EXISTS idx_contacts_name ON contacts(LOWER(first_name), LOWER(last_name));

CREATE TABLE IF NOT EXISTS import_batches (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL CHECK(source IN ('vcard', 'csv')),
	filename TEXT NOT NULL DEFAULT '',
	total_in_file INTEGER NOT NULL,
	created INTEGER NOT NULL DEFAULT 0,
	updated INTEGER NOT NULL DEFAULT 0,
	unchanged INTEGER NOT NULL DEFAULT 0,
	skipped INTEGER NOT NULL DEFAULT 0,
	conflicts INTEGER NOT NULL DEFAULT 0,
	imported_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_import_batches_imported_at ON import_batches(imported_at DESC);

CREATE TABLE IF NOT EXISTS import_skips (
	batch_id TEXT NOT NULL,
	source_index INTEGER NOT NULL,
	reason TEXT NOT NULL CHECK(reason IN ('NO_NAME', 'PARSE_ERROR', 'EMPTY_ENTRY', 'DUPLICATE_IN_FILE')),
	preview TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (batch_id, source_index),
	FOREIGN KEY (batch_id) REFERENCES import_batches(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS import_conflicts (
	id TEXT PRIMARY KEY,
	batch_id TEXT NOT NULL,
	contact_id TEXT NOT NULL,
	field TEXT NOT NULL,
	existing_value TEXT NOT NULL,
	incoming_value TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending' CHECK(status IN ('pending', 'accepted', 'rejected')),
	created_at DATETIME NOT NULL,
	resolved_at DATETIME,
	FOREIGN KEY (batch_id) REFERENCES import_batches(id) ON DELETE CASCADE,
	FOREIGN KEY (contact_id) REFERENCES contacts(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_import_conflicts_status ON import_conflicts(status);
CREATE INDEX IF NOT EXISTS idx_import_conflicts_contact ON import_conflicts(contact_id);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
