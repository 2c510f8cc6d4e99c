// Package errors provides enhanced error handling capabilities for the
// job runner core.
//
// It extends the standard error interface with additional context, error codes,
// stack traces, and error metadata.
//
// The package supports:
//   - Error wrapping with context preservation
//   - HTTP status code mapping
//   - Stack trace capture for debugging
//   - Structured error metadata
//   - Error categorization (validation, not found, conflict, etc.)
//
// Basic usage:
//
//	err := errors.New("database connection failed").
//	    WithCode(errors.CodeInternal).
//	    WithMetadata("host", "localhost:5432")
//
// Wrapping errors:
//
//	if err := db.Query(); err != nil {
//	    return errors.Wrap(err, "failed to query database").
//	        WithCode(errors.CodeDatabase)
//	}
//
// Checking error types:
//
//	if errors.IsNotFound(err) {
//	    // Handle not found error
//	}
//
// Two small constructors keep shared messages worded identically
// everywhere they're raised: NotFound ("%s %s not found", used by the jobs
// repository and the queue engine) and RateLimited (the scheduler's
// backpressure-on-concurrency-cap error).
package errors
