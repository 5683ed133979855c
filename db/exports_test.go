package db

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDatabase(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestRecordAndGetExport(t *testing.T) {
	db := setupTestDB(t)

	rec := &ExportRecord{
		FileName:     "measurement-workbook-Jane-Doe-2026-06-09.json",
		Format:       "json",
		CustomerName: "Jane Doe",
		JobAddress:   "12 Elm St",
		Path:         "/tmp/out/measurement-workbook-Jane-Doe-2026-06-09.json",
		SizeBytes:    2048,
		PhotoCount:   3,
		WarningCount: 1,
	}
	require.NoError(t, RecordExport(db, rec))
	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := GetExport(db, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.FileName, got.FileName)
	assert.Equal(t, rec.CustomerName, got.CustomerName)
	assert.Equal(t, int64(2048), got.SizeBytes)
	assert.Equal(t, 3, got.PhotoCount)
	assert.Equal(t, 1, got.WarningCount)
}

func TestGetExportMissing(t *testing.T) {
	db := setupTestDB(t)

	got, err := GetExport(db, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListExportsNewestFirst(t *testing.T) {
	db := setupTestDB(t)
	base := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	for i, customer := range []string{"Jane Doe", "Bob Smith", "Janet Roe"} {
		require.NoError(t, RecordExport(db, &ExportRecord{
			FileName:     customer + ".json",
			Format:       "json",
			CustomerName: customer,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := ListExports(db, "", 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Janet Roe", all[0].CustomerName)
	assert.Equal(t, "Jane Doe", all[2].CustomerName)

	janes, err := ListExports(db, "JANE", 10)
	require.NoError(t, err)
	assert.Len(t, janes, 2)

	limited, err := ListExports(db, "", 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestListExportsMatchesWildcardsLiterally(t *testing.T) {
	db := setupTestDB(t)

	for _, customer := range []string{"100% Tile", "1000 Tile", "Jane_Doe", "JaneXDoe", `C:\Homes`} {
		require.NoError(t, RecordExport(db, &ExportRecord{FileName: customer + ".json", Format: "json", CustomerName: customer}))
	}

	percent, err := ListExports(db, "100%", 0)
	require.NoError(t, err)
	require.Len(t, percent, 1)
	assert.Equal(t, "100% Tile", percent[0].CustomerName)

	underscore, err := ListExports(db, "jane_", 0)
	require.NoError(t, err)
	require.Len(t, underscore, 1)
	assert.Equal(t, "Jane_Doe", underscore[0].CustomerName)

	backslash, err := ListExports(db, `c:\`, 0)
	require.NoError(t, err)
	require.Len(t, backslash, 1)
	assert.Equal(t, `C:\Homes`, backslash[0].CustomerName)
}
