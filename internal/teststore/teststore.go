// Package teststore builds a throwaway sqlite-backed store.Store for unit
// tests across the internal packages (state, queue, runs, scheduler,
// maintenance) so each test suite isn't reimplementing fixture setup.
package teststore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// New opens a fresh migrated sqlite store in a t.TempDir(), closed
// automatically on test cleanup.
func New(t *testing.T) *store.Store {
	t.Helper()

	dir := t.TempDir()
	st, err := store.Open(context.Background(), filepath.Join(dir, "test.sqlite"), logger.NewNop())
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}

	t.Cleanup(func() { st.Close() })
	return st
}
