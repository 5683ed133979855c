// ABOUTME: Export history database operations
// ABOUTME: Records each written export and lists them newest first
package db

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ExportRecord is one row of export history.
type ExportRecord struct {
	ID           uuid.UUID `json:"id"`
	FileName     string    `json:"fileName"`
	Format       string    `json:"format"`
	CustomerName string    `json:"customerName"`
	JobAddress   string    `json:"jobAddress"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"sizeBytes"`
	PhotoCount   int       `json:"photoCount"`
	WarningCount int       `json:"warningCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

func RecordExport(db *sql.DB, rec *ExportRecord) error {
	rec.ID = uuid.New()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}

	_, err := db.Exec(`
		INSERT INTO exports (id, file_name, format, customer_name, job_address, path, size_bytes, photo_count, warning_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, rec.ID.String(), rec.FileName, rec.Format, rec.CustomerName, rec.JobAddress, rec.Path,
		rec.SizeBytes, rec.PhotoCount, rec.WarningCount, rec.CreatedAt)

	return err
}

func GetExport(db *sql.DB, id uuid.UUID) (*ExportRecord, error) {
	rec := &ExportRecord{}
	err := db.QueryRow(`
		SELECT id, file_name, format, customer_name, job_address, path, size_bytes, photo_count, warning_count, created_at
		FROM exports WHERE id = ?
	`, id.String()).Scan(exportFields(rec)...)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

// ListExports returns the newest exports first. A non-empty customer filters
// by a case-insensitive substring match.
func ListExports(db *sql.DB, customer string, limit int) ([]ExportRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	searchPattern := "%" + escapeLike(strings.ToLower(customer)) + "%"
	rows, err := db.Query(`
		SELECT id, file_name, format, customer_name, job_address, path, size_bytes, photo_count, warning_count, created_at
		FROM exports
		WHERE LOWER(customer_name) LIKE ? ESCAPE '\'
		ORDER BY created_at DESC
		LIMIT ?
	`, searchPattern, limit)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ExportRecord
	for rows.Next() {
		var rec ExportRecord
		if err := rows.Scan(exportFields(&rec)...); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func exportFields(rec *ExportRecord) []interface{} {
	return []interface{}{
		&rec.ID,
		&rec.FileName,
		&rec.Format,
		&rec.CustomerName,
		&rec.JobAddress,
		&rec.Path,
		&rec.SizeBytes,
		&rec.PhotoCount,
		&rec.WarningCount,
		&rec.CreatedAt,
	}
}
