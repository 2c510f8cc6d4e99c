package state

import (
	"context"
	"database/sql"
	"time"

	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Engine is the scalar KV store with optional absolute TTL.
type Engine struct {
	store  *store.Store
	logger logger.Logger
}

// New creates a state Engine backed by st.
func New(st *store.Store, log logger.Logger) *Engine {
	return &Engine{store: st, logger: log.Named("state")}
}

// Get returns the value for (ns, key) if the row exists and has not
// expired.
func (e *Engine) Get(ctx context.Context, ns, key string) (string, bool, error) {
	var row struct {
		Value     *string    `db:"value"`
		ExpiresAt *time.Time `db:"expires_at"`
	}

	err := e.store.DB().GetContext(ctx, &row,
		`SELECT value, expires_at FROM state WHERE namespace = ? AND key = ?`, ns, key)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to read state row").
			WithCode(errors.CodeDatabase)
	}

	if row.ExpiresAt != nil && row.ExpiresAt.Before(time.Now()) {
		return "", false, nil
	}

	if row.Value == nil {
		return "", true, nil
	}

	return *row.Value, true, nil
}

// Set upserts (ns, key) = value, with an optional TTL string ("<n><d|h|m>").
func (e *Engine) Set(ctx context.Context, ns, key, value string, ttl string) error {
	var expiresAt *time.Time
	if ttl != "" {
		d, err := parseTTL(ttl)
		if err != nil {
			return err
		}

		t := time.Now().Add(d)
		expiresAt = &t
	}

	_, err := e.store.DB().ExecContext(ctx, `
		INSERT INTO state (namespace, key, value, expires_at, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at,
			updated_at = CURRENT_TIMESTAMP
	`, ns, key, value, expiresAt)
	if err != nil {
		return errors.Wrap(err, "failed to set state row").
			WithCode(errors.CodeDatabase)
	}

	return nil
}

// PruneExpired deletes every state row whose expires_at has passed,
// returning the count removed. Called by the maintenance sweep.
func (e *Engine) PruneExpired(ctx context.Context) (int64, error) {
	res, err := e.store.DB().ExecContext(ctx,
		`DELETE FROM state WHERE expires_at IS NOT NULL AND expires_at < CURRENT_TIMESTAMP`)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune expired state rows").
			WithCode(errors.CodeDatabase)
	}

	return res.RowsAffected()
}

// Delete removes (ns, key).
func (e *Engine) Delete(ctx context.Context, ns, key string) error {
	_, err := e.store.DB().ExecContext(ctx,
		`DELETE FROM state WHERE namespace = ? AND key = ?`, ns, key)
	if err != nil {
		return errors.Wrap(err, "failed to delete state row").
			WithCode(errors.CodeDatabase)
	}

	return nil
}
