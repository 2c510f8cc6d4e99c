// Package queue provides the durable work queue jobs use to coordinate
// work across runs: enqueue with optional path-expression-based
// deduplication, claim-based dequeue under a transaction, explicit
// completion, and retry-or-dead-letter on failure.
//
// Unlike a Redis-backed queue, every item lives in the same sqlite
// database as jobs and runs (internal/store), so claims are atomic SQL
// transactions rather than broker-side visibility timeouts.
//
// Basic usage:
//
//	eng := queue.New(st, logger)
//	id, err := eng.Enqueue(ctx, "emails", queue.EnqueueOptions{Payload: payload})
//	items, err := eng.Dequeue(ctx, "emails", 10)
//	err = eng.Done(ctx, items[0].ID)
package queue
