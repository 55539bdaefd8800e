package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	// A second run is a no-op.
	err := Migrate(db)
	require.NoError(t, err)

	err = Migrate(db)
	require.NoError(t, err)
}

func TestMigrate_CreatesTablesAndIndexes(t *testing.T) {
	db := openTestDB(t)

	var name string
	err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='kv_entries'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "kv_entries", name)

	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name='idx_kv_entries_updated'`).Scan(&name)
	require.NoError(t, err)
}

func TestOpenDB_CreatesParentDirectory(t *testing.T) {
	path := t.TempDir() + "/nested/dir/estimator.db"
	db, err := OpenDB(path)
	require.NoError(t, err)
	defer db.Close()

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
