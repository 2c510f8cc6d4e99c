package logger

// JobFields returns the key-value pairs every job-scoped log line carries,
// for use with the variadic Logger methods, e.g.:
//
//	log.Info("job created", logger.JobFields(job.ID)...)
func JobFields(jobID string) []any {
	return []any{"job_id", jobID}
}

// RunFields returns the key-value pairs every run-scoped log line carries.
// A run is always scoped to the job that produced it, so both ids are
// included.
func RunFields(jobID string, runID int64) []any {
	return []any{"job_id", jobID, "run_id", runID}
}
