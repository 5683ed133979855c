// ABOUTME: Database schema definitions
// ABOUTME: Creates the export history table and its indexes
package db

import (
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS exports (
	id TEXT PRIMARY KEY,
	file_name TEXT NOT NULL,
	format TEXT NOT NULL,
	customer_name TEXT,
	job_address TEXT,
	path TEXT,
	size_bytes INTEGER NOT NULL DEFAULT 0,
	photo_count INTEGER NOT NULL DEFAULT 0,
	warning_count INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_exports_created_at ON exports(created_at);
CREATE INDEX IF NOT EXISTS idx_exports_customer_name ON exports(customer_name);
`

func InitSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
