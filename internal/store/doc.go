// Package store provides the embedded SQL persistence layer for the job
// runner. It owns the sqlite connection, write-ahead logging, schema
// migrations and the atomic-batch primitive the queue engine builds its
// claim-based dequeue on.
//
// The package is the sole source of truth for jobs, runs, state, state
// items, queue definitions and queue items; every other internal package
// (state, queue, runs, maintenance) is a thin, focused view over the
// tables this package creates.
//
// Basic usage:
//
//	st, err := store.Open(ctx, "./data/runner.sqlite", logger)
//	defer st.Close()
//
//	err = st.Atomic(ctx, func(tx *sqlx.Tx) error {
//	    _, err := tx.Exec(`UPDATE queue_items SET status = ? WHERE id = ?`, "done", id)
//	    return err
//	})
package store
