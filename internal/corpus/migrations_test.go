package corpus

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := openDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

func tableExists(t *testing.T, db *sql.DB, name string) bool {
	t.Helper()

	var found string
	err := db.QueryRow(
		"SELECT name FROM sqlite_master WHERE type='table' AND name=?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false
	}
	require.NoError(t, err)
	return true
}

func TestApplyMigrations(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))

	for _, table := range []string{"schema_version", "documents", "documents_fts"} {
		assert.True(t, tableExists(t, db, table), "table %s should exist after migration", table)
	}

	var version string
	require.NoError(t, db.QueryRow(
		"SELECT version FROM schema_version ORDER BY applied_at DESC LIMIT 1").Scan(&version))
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestApplyMigrationsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, ApplyMigrations(ctx, db))

	// Already-applied migrations must not be recorded twice
	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestRollbackMigration(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	require.NoError(t, ApplyMigrations(ctx, db))
	require.NoError(t, RollbackMigration(ctx, db))

	for _, table := range []string{"schema_version", "documents", "documents_fts"} {
		assert.False(t, tableExists(t, db, table), "table %s should be gone after rollback", table)
	}

	// Nothing left to roll back
	assert.Error(t, RollbackMigration(ctx, db))

	// The schema can be rebuilt from scratch afterwards
	require.NoError(t, ApplyMigrations(ctx, db))
	assert.True(t, tableExists(t, db, "documents"))
}
