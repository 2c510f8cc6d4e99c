package state

import (
	"context"
	"database/sql"

	"github.com/salgue441/jobrunner/pkg/errors"
)

// HasItem reports whether (ns, key, itemKey) exists.
func (e *Engine) HasItem(ctx context.Context, ns, key, itemKey string) (bool, error) {
	var count int
	err := e.store.DB().GetContext(ctx, &count,
		`SELECT COUNT(*) FROM state_items WHERE namespace = ? AND key = ? AND item_key = ?`,
		ns, key, itemKey)
	if err != nil {
		return false, errors.Wrap(err, "failed to check state item").
			WithCode(errors.CodeDatabase)
	}

	return count > 0, nil
}

// GetItem returns the value stored for (ns, key, itemKey).
func (e *Engine) GetItem(ctx context.Context, ns, key, itemKey string) (string, bool, error) {
	var value *string
	err := e.store.DB().GetContext(ctx, &value,
		`SELECT value FROM state_items WHERE namespace = ? AND key = ? AND item_key = ?`,
		ns, key, itemKey)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, errors.Wrap(err, "failed to read state item").
			WithCode(errors.CodeDatabase)
	}

	if value == nil {
		return "", true, nil
	}

	return *value, true, nil
}

// SetItem idempotently ensures a parent state row exists (value NULL),
// then upserts the item.
func (e *Engine) SetItem(ctx context.Context, ns, key, itemKey string, value *string) error {
	_, err := e.store.DB().ExecContext(ctx, `
		INSERT INTO state (namespace, key, value, updated_at)
		VALUES (?, ?, NULL, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key) DO NOTHING
	`, ns, key)
	if err != nil {
		return errors.Wrap(err, "failed to ensure parent state row").
			WithCode(errors.CodeDatabase)
	}

	_, err = e.store.DB().ExecContext(ctx, `
		INSERT INTO state_items (namespace, key, item_key, value, updated_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT (namespace, key, item_key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, ns, key, itemKey, value)
	if err != nil {
		return errors.Wrap(err, "failed to set state item").
			WithCode(errors.CodeDatabase)
	}

	return nil
}

// DeleteItem removes a single item from a collection.
func (e *Engine) DeleteItem(ctx context.Context, ns, key, itemKey string) error {
	_, err := e.store.DB().ExecContext(ctx,
		`DELETE FROM state_items WHERE namespace = ? AND key = ? AND item_key = ?`,
		ns, key, itemKey)
	if err != nil {
		return errors.Wrap(err, "failed to delete state item").
			WithCode(errors.CodeDatabase)
	}

	return nil
}

// CountItems returns the number of items in a collection.
func (e *Engine) CountItems(ctx context.Context, ns, key string) (int, error) {
	var count int
	err := e.store.DB().GetContext(ctx, &count,
		`SELECT COUNT(*) FROM state_items WHERE namespace = ? AND key = ?`, ns, key)
	if err != nil {
		return 0, errors.Wrap(err, "failed to count state items").
			WithCode(errors.CodeDatabase)
	}

	return count, nil
}

// PruneItems deletes every item for (ns, key) not among the keepCount
// most recently updated, returning the number deleted.
func (e *Engine) PruneItems(ctx context.Context, ns, key string, keepCount int) (int64, error) {
	res, err := e.store.DB().ExecContext(ctx, `
		DELETE FROM state_items
		WHERE namespace = ? AND key = ?
		AND item_key NOT IN (
			SELECT item_key FROM state_items
			WHERE namespace = ? AND key = ?
			ORDER BY updated_at DESC
			LIMIT ?
		)
	`, ns, key, ns, key, keepCount)
	if err != nil {
		return 0, errors.Wrap(err, "failed to prune state items").
			WithCode(errors.CodeDatabase)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "failed to read prune result").
			WithCode(errors.CodeDatabase)
	}

	return n, nil
}

// ItemOrder selects ascending or descending ordering for ListItemKeys.
type ItemOrder string

const (
	OrderDesc ItemOrder = "desc"
	OrderAsc  ItemOrder = "asc"
)

// ListItemKeys lists item_keys for (ns, key) ordered by updated_at, with
// an optional limit. order defaults to descending. updated_at has
// one-second resolution, so ties are broken by insertion order (rowid)
// in the same direction.
func (e *Engine) ListItemKeys(ctx context.Context, ns, key string, limit int, order ItemOrder) ([]string, error) {
	if order == "" {
		order = OrderDesc
	}

	dir := "DESC"
	if order == OrderAsc {
		dir = "ASC"
	}

	query := `SELECT item_key FROM state_items WHERE namespace = ? AND key = ? ORDER BY updated_at ` + dir + `, rowid ` + dir
	args := []any{ns, key}

	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	var keys []string
	if err := e.store.DB().SelectContext(ctx, &keys, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list state item keys").
			WithCode(errors.CodeDatabase)
	}

	return keys, nil
}
