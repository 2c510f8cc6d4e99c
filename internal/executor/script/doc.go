// Package script runs a job's script value as a child process, chosen by
// file extension, and maps its termination into an
// internal/models.ExecutionResult.
//
// Environment, stdout/stderr capture (bounded to the last 100 non-blank
// lines per stream) and the JR_RESULT: marker protocol are all described
// in the job-script execution contract; this package is the only place
// that contract is implemented.
package script
