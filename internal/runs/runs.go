package runs

import (
	"context"
	"time"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Repository persists run records.
type Repository struct {
	store  *store.Store
	logger logger.Logger
}

// New creates a run Repository backed by st.
func New(st *store.Store, log logger.Logger) *Repository {
	return &Repository{store: st, logger: log.Named("runs")}
}

// Open inserts a new run row with status=running and returns its id.
func (r *Repository) Open(ctx context.Context, jobID string, trigger models.RunTrigger) (int64, error) {
	res, err := r.store.DB().ExecContext(ctx, `
		INSERT INTO runs (job_id, status, started_at, trigger)
		VALUES (?, ?, ?, ?)
	`, jobID, models.RunStatusRunning, time.Now().UTC(), trigger)
	if err != nil {
		return 0, errors.Wrap(err, "failed to open run").WithCode(errors.CodeDatabase)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read run id").WithCode(errors.CodeDatabase)
	}

	return id, nil
}

// Close updates a run row to its terminal state exactly once.
func (r *Repository) Close(ctx context.Context, runID int64, result models.ExecutionResult) error {
	_, err := r.store.DB().ExecContext(ctx, `
		UPDATE runs SET
			status = ?, finished_at = ?, duration_ms = ?, exit_code = ?,
			tokens = ?, result_meta = ?, error = ?, stdout_tail = ?, stderr_tail = ?
		WHERE id = ?
	`,
		result.Status, time.Now().UTC(), result.DurationMs, result.ExitCode,
		result.Tokens, result.ResultMeta, result.Error, result.StdoutTail, result.StderrTail,
		runID,
	)
	if err != nil {
		return errors.Wrap(err, "failed to close run").WithCode(errors.CodeDatabase)
	}

	return nil
}

// Recent returns the most recent runs for jobID, newest first, bounded
// by limit.
func (r *Repository) Recent(ctx context.Context, jobID string, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	var out []models.Run
	err := r.store.DB().SelectContext(ctx, &out, `
		SELECT * FROM runs WHERE job_id = ? ORDER BY started_at DESC LIMIT ?
	`, jobID, limit)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs").WithCode(errors.CodeDatabase)
	}

	return out, nil
}

// LastByJob returns the most recent run for every job id that has at
// least one, keyed by job id; used by GET /jobs to attach
// last_status/last_run without an N+1 query per job.
func (r *Repository) LastByJob(ctx context.Context) (map[string]models.Run, error) {
	var rows []models.Run
	err := r.store.DB().SelectContext(ctx, &rows, `
		SELECT r.* FROM runs r
		INNER JOIN (
			SELECT job_id, MAX(started_at) AS max_started_at FROM runs GROUP BY job_id
		) latest ON latest.job_id = r.job_id AND latest.max_started_at = r.started_at
	`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load latest runs").WithCode(errors.CodeDatabase)
	}

	out := make(map[string]models.Run, len(rows))
	for _, row := range rows {
		out[row.JobID] = row
	}

	return out, nil
}

// CountByStatusSince counts runs with the given status started at or
// after since.
func (r *Repository) CountByStatusSince(ctx context.Context, status models.RunStatus, since time.Time) (int, error) {
	var count int
	err := r.store.DB().GetContext(ctx, &count, `
		SELECT COUNT(*) FROM runs WHERE status = ? AND started_at >= ?
	`, status, since)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count runs").WithCode(errors.CodeDatabase)
	}

	return count, nil
}

// DeleteOlderThan removes runs started before cutoff, returning the
// number of rows deleted.
func (r *Repository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.store.DB().ExecContext(ctx, `DELETE FROM runs WHERE started_at < ?`, cutoff)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune runs").WithCode(errors.CodeDatabase)
	}

	return res.RowsAffected()
}
