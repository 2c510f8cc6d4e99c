package queue

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/pkg/errors"
)

// PruneRetention deletes completed or failed queue items whose
// finished_at has passed their effective retention window: the parent
// queue's retention_days, or DefaultRetentionDays for an undefined
// queue id (backward-compat, invariant I3).
func (e *Engine) PruneRetention(ctx context.Context) (int64, error) {
	retentionByQueue := make(map[string]int)

	var defs []struct {
		ID            string `db:"id"`
		RetentionDays int    `db:"retention_days"`
	}
	if err := e.store.DB().SelectContext(ctx, &defs, `SELECT id, retention_days FROM queue_defs`); err != nil {
		return 0, errors.Wrap(err, "failed to load queue definitions").WithCode(errors.CodeDatabase)
	}
	for _, d := range defs {
		retentionByQueue[d.ID] = d.RetentionDays
	}

	var items []struct {
		ID         int64     `db:"id"`
		QueueID    string    `db:"queue_id"`
		FinishedAt time.Time `db:"finished_at"`
	}
	err := e.store.DB().SelectContext(ctx, &items, `
		SELECT id, queue_id, finished_at FROM queue_items
		WHERE status IN ('done', 'failed') AND finished_at IS NOT NULL
	`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to load finished queue items").WithCode(errors.CodeDatabase)
	}

	now := time.Now()
	staleIDs := make([]int64, 0, len(items))
	for _, item := range items {
		retentionDays := models.DefaultRetentionDays
		if d, ok := retentionByQueue[item.QueueID]; ok {
			retentionDays = d
		}

		cutoff := now.AddDate(0, 0, -retentionDays)
		if item.FinishedAt.Before(cutoff) {
			staleIDs = append(staleIDs, item.ID)
		}
	}

	if len(staleIDs) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`DELETE FROM queue_items WHERE id IN (?)`, staleIDs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build retention delete").WithCode(errors.CodeInternal)
	}

	query = e.store.DB().Rebind(query)
	res, err := e.store.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune queue items").WithCode(errors.CodeDatabase)
	}

	return res.RowsAffected()
}
