package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_Idempotent(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	// OpenDB already migrated; a second run must be a no-op.
	require.NoError(t, Migrate(database))
}

func TestSchema_RunningSlotUnique(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Acme', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)

	insert := `INSERT INTO sessions (id, project_id, start, running, created_at)
		VALUES (?, 'p1', '2024-01-01T09:00:00Z', 1, '2024-01-01T09:00:00Z')`
	_, err = database.Exec(insert, "s1")
	require.NoError(t, err)

	// The partial unique index rejects a second running row outright.
	_, err = database.Exec(insert, "s2")
	assert.Error(t, err)

	// Completed rows are unconstrained.
	_, err = database.Exec(
		`INSERT INTO sessions (id, project_id, start, running, created_at)
			VALUES ('s3', 'p1', '2024-01-01T08:00:00Z', 0, '2024-01-01T08:00:00Z')`)
	assert.NoError(t, err)
}

func TestSchema_SessionCascadeOnProjectDelete(t *testing.T) {
	database, err := OpenDB(":memory:")
	require.NoError(t, err)
	defer database.Close()

	_, err = database.Exec(
		`INSERT INTO projects (id, name, created_at, updated_at) VALUES ('p1', 'Acme', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`)
	require.NoError(t, err)
	_, err = database.Exec(
		`INSERT INTO sessions (id, project_id, start, created_at) VALUES ('s1', 'p1', '2024-01-01T09:00:00Z', '2024-01-01T09:00:00Z')`)
	require.NoError(t, err)

	_, err = database.Exec(`DELETE FROM projects WHERE id = 'p1'`)
	require.NoError(t, err)

	var count int
	require.NoError(t, database.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&count))
	assert.Equal(t, 0, count)
}
