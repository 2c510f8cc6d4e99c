// Package models defines the core data structures persisted by the job
// runner: jobs, runs, state rows and items, queue definitions and items.
//
// The package provides:
//   - Enum types for job type, overlap policy, run status and trigger
//   - Struct tags wiring each type to its sqlite row shape via sqlx
//
// These are plain data carriers; the persistence and lifecycle logic lives
// in internal/store, internal/state, internal/queue and internal/runs.
package models
