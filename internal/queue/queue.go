package queue

import (
	"context"
	"database/sql"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Engine is the durable, dedup-and-retry-aware work queue.
type Engine struct {
	store  *store.Store
	logger logger.Logger
}

// New creates a queue Engine backed by st.
func New(st *store.Store, log logger.Logger) *Engine {
	return &Engine{store: st, logger: log.Named("queue")}
}

// EnsureDefinition inserts def if no definition with that id exists yet;
// it is a no-op otherwise, since queue definitions are immutable after
// seed in normal use.
func (e *Engine) EnsureDefinition(ctx context.Context, def models.QueueDef) error {
	if def.DedupScope == "" {
		def.DedupScope = models.DedupScopePending
	}

	_, err := e.store.DB().ExecContext(ctx, `
		INSERT INTO queue_defs (id, name, dedup_expr, dedup_scope, max_attempts, retention_days)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, def.ID, def.Name, def.DedupExpr, def.DedupScope, def.MaxAttempts, def.RetentionDays)
	if err != nil {
		return errors.Wrap(err, "failed to ensure queue definition").
			WithCode(errors.CodeDatabase)
	}

	return nil
}

func (e *Engine) lookupDef(ctx context.Context, queueID string) (*models.QueueDef, error) {
	var def models.QueueDef
	err := e.store.DB().GetContext(ctx, &def, `SELECT * FROM queue_defs WHERE id = ?`, queueID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up queue definition").
			WithCode(errors.CodeDatabase)
	}

	return &def, nil
}

// dedupStatuses returns the queue_items.status values participating in
// duplicate detection for scope (invariant I4).
func dedupStatuses(scope models.DedupScope) []models.QueueStatus {
	if scope == models.DedupScopeAll {
		return []models.QueueStatus{
			models.QueueStatusPending, models.QueueStatusProcessing, models.QueueStatusDone,
		}
	}

	return []models.QueueStatus{models.QueueStatusPending, models.QueueStatusProcessing}
}

// Enqueue inserts a pending item into queueID. If the queue has a
// dedup-path expression and an in-scope item with the same dedup key
// already exists, Enqueue returns the sentinel Skipped instead of
// inserting a row.
func (e *Engine) Enqueue(ctx context.Context, queueID string, opts EnqueueOptions) (int64, error) {
	def, err := e.lookupDef(ctx, queueID)
	if err != nil {
		return 0, err
	}

	var dedupKey *string
	if def != nil && def.DedupExpr != nil && *def.DedupExpr != "" {
		if key, ok := evalDedupKey(opts.Payload, *def.DedupExpr); ok {
			dedupKey = &key
		}
	}

	scope := models.DedupScopePending
	if def != nil {
		scope = def.DedupScope
	}

	if dedupKey != nil {
		statuses := dedupStatuses(scope)
		query, args, inErr := sqlx.In(
			`SELECT COUNT(*) FROM queue_items WHERE queue_id = ? AND dedup_key = ? AND status IN (?)`,
			queueID, *dedupKey, statuses)
		if inErr != nil {
			return 0, errors.Wrap(inErr, "failed to build dedup query").
				WithCode(errors.CodeInternal)
		}

		query = e.store.DB().Rebind(query)

		var count int
		if err := e.store.DB().GetContext(ctx, &count, query, args...); err != nil {
			return 0, errors.Wrap(err, "failed to check dedup key").
				WithCode(errors.CodeDatabase)
		}

		if count > 0 {
			return Skipped, nil
		}
	}

	maxAttempts := resolveMaxAttempts(opts.MaxAttempts, def)

	res, err := e.store.DB().ExecContext(ctx, `
		INSERT INTO queue_items (queue_id, payload, status, priority, attempts, max_attempts, dedup_key, created_at)
		VALUES (?, ?, 'pending', ?, 0, ?, ?, CURRENT_TIMESTAMP)
	`, queueID, opts.Payload, opts.Priority, maxAttempts, dedupKey)
	if err != nil {
		return 0, errors.Wrap(err, "failed to enqueue item").
			WithCode(errors.CodeDatabase)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read inserted item id").
			WithCode(errors.CodeDatabase)
	}

	e.logger.Debug("item enqueued", "queue_id", queueID, "item_id", id, "dedup_key", dedupKey)
	return id, nil
}

// Dequeue atomically claims up to count pending items from queueID,
// ordered by priority DESC, created_at ASC, marking each as processing
// and incrementing its attempts counter. Two concurrent callers on the
// same queue never receive overlapping id sets (invariant P3).
func (e *Engine) Dequeue(ctx context.Context, queueID string, count int) ([]Item, error) {
	var items []Item

	err := e.store.Atomic(ctx, func(tx *sqlx.Tx) error {
		var rows []struct {
			ID      int64  `db:"id"`
			Payload string `db:"payload"`
		}

		err := tx.SelectContext(ctx, &rows, `
			SELECT id, payload FROM queue_items
			WHERE queue_id = ? AND status = 'pending'
			ORDER BY priority DESC, created_at ASC
			LIMIT ?
		`, queueID, count)
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}

		ids := make([]int64, len(rows))
		for i, r := range rows {
			ids[i] = r.ID
		}

		query, args, inErr := sqlx.In(`
			UPDATE queue_items
			SET status = 'processing', claimed_at = ?, attempts = attempts + 1
			WHERE id IN (?)
		`, time.Now(), ids)
		if inErr != nil {
			return inErr
		}

		query = tx.Rebind(query)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return err
		}

		items = make([]Item, len(rows))
		for i, r := range rows {
			items[i] = Item{ID: r.ID, Payload: r.Payload}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to dequeue items").
			WithCode(errors.CodeDatabase)
	}

	return items, nil
}

// Get returns the full row for id, used by the API layer and tests to
// inspect terminal state.
func (e *Engine) Get(ctx context.Context, id int64) (*models.QueueItem, error) {
	var item models.QueueItem
	err := e.store.DB().GetContext(ctx, &item, `SELECT * FROM queue_items WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("queue item", strconv.FormatInt(id, 10))
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get queue item").
			WithCode(errors.CodeDatabase)
	}

	return &item, nil
}

// Done marks id as completed.
func (e *Engine) Done(ctx context.Context, id int64) error {
	_, err := e.store.DB().ExecContext(ctx,
		`UPDATE queue_items SET status = 'done', finished_at = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return errors.Wrap(err, "failed to mark item done").
			WithCode(errors.CodeDatabase)
	}

	return nil
}

// Fail records a failed attempt. If attempts is still below
// max_attempts, the item resets to pending so the next dequeue retries
// it; otherwise it transitions to the terminal failed (dead-letter)
// state (invariant I5).
//
// Dequeue already incremented attempts before the caller started work,
// so an item with max_attempts=N gets exactly N dequeues before
// dead-letter, not N failures.
func (e *Engine) Fail(ctx context.Context, id int64, errMsg string) error {
	var row struct {
		Attempts    int `db:"attempts"`
		MaxAttempts int `db:"max_attempts"`
	}

	err := e.store.DB().GetContext(ctx, &row,
		`SELECT attempts, max_attempts FROM queue_items WHERE id = ?`, id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "failed to read item for fail").
			WithCode(errors.CodeDatabase)
	}

	if row.Attempts < row.MaxAttempts {
		_, err = e.store.DB().ExecContext(ctx,
			`UPDATE queue_items SET status = 'pending', error = ? WHERE id = ?`, errMsg, id)
	} else {
		_, err = e.store.DB().ExecContext(ctx,
			`UPDATE queue_items SET status = 'failed', error = ?, finished_at = ? WHERE id = ?`,
			errMsg, time.Now(), id)
	}
	if err != nil {
		return errors.Wrap(err, "failed to record item failure").
			WithCode(errors.CodeDatabase)
	}

	return nil
}
