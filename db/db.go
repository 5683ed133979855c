// ABOUTME: Export history database connection
// ABOUTME: Opens SQLite under the data dir with WAL, a busy timeout, and the schema applied
package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// BusyTimeoutMillis is how long a statement waits on a lock held by another
// measurebook process, such as the MCP server, before failing.
const BusyTimeoutMillis = 5000

// dsn builds the go-sqlite3 connection string for path.
func dsn(path string) string {
	params := url.Values{}
	params.Set("_journal_mode", "WAL")
	params.Set("_busy_timeout", fmt.Sprint(BusyTimeoutMillis))
	params.Set("_synchronous", "NORMAL")
	params.Set("_foreign_keys", "on")
	return path + "?" + params.Encode()
}

// OpenDatabase opens (creating if needed) the history database at path.
func OpenDatabase(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history dir: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, err
	}

	// One writer per process; other processes wait out BusyTimeoutMillis
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return db, nil
}
