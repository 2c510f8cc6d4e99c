package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/logger"
)

func TestOpen_CreatesParentDir(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "nested", "runner.sqlite")

	st, err := store.Open(context.Background(), dbPath, logger.NewNop())
	require.NoError(t, err)
	defer st.Close()

	var version int
	err = st.DB().Get(&version, `SELECT COALESCE(MAX(version), 0) FROM schema_version`)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}

func TestOpen_MigrationIdempotence(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "runner.sqlite")

	st1, err := store.Open(context.Background(), dbPath, logger.NewNop())
	require.NoError(t, err)
	st1.Close()

	// Reopening an already-migrated database must not reapply or
	// duplicate migrations.
	st2, err := store.Open(context.Background(), dbPath, logger.NewNop())
	require.NoError(t, err)
	defer st2.Close()

	var count int
	err = st2.DB().Get(&count, `SELECT COUNT(*) FROM schema_version`)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAtomic_RollsBackOnError(t *testing.T) {
	st, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "runner.sqlite"), logger.NewNop())
	require.NoError(t, err)
	defer st.Close()

	boom := assert.AnError
	err = st.Atomic(context.Background(), func(tx *sqlx.Tx) error {
		_, execErr := tx.Exec(`INSERT INTO jobs (id, name, schedule, script, type) VALUES (?, ?, ?, ?, ?)`,
			"j1", "job", "* * * * *", "./run.sh", "script")
		if execErr != nil {
			return execErr
		}

		return boom
	})
	assert.ErrorIs(t, err, boom)

	var count int
	countErr := st.DB().Get(&count, `SELECT COUNT(*) FROM jobs`)
	require.NoError(t, countErr)
	assert.Equal(t, 0, count)
}
