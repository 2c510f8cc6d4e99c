package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sort"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Store owns the sqlite connection used by every other engine.
type Store struct {
	db     *sqlx.DB
	logger logger.Logger
}

// Open creates the database file and parent directories if missing,
// enables WAL and foreign-key enforcement, and applies pending
// migrations in ascending order.
func Open(ctx context.Context, dbPath string, log logger.Logger) (*Store, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, errors.Wrap(err, "failed to create database directory").
					WithCode(errors.CodeDatabase)
			}
		}
	}

	dsn := dbPath + "?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000"
	db, err := sqlx.ConnectContext(ctx, "sqlite3", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database").
			WithCode(errors.CodeDatabase)
	}

	// A single writer is required for WAL correctness under our
	// serialize-writes policy (spec §5); sqlite3's driver otherwise
	// allows multiple connections to race on writes.
	db.SetMaxOpenConns(1)

	st := &Store{db: db, logger: log.Named("store")}
	if err := st.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return st, nil
}

// DB exposes the underlying handle for packages that build their own
// prepared queries (state, queue, runs).
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Atomic runs fn inside a single transaction, committing on success and
// rolling back on any error (including panics, which are re-raised after
// rollback).
func (s *Store) Atomic(ctx context.Context, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction").
			WithCode(errors.CodeDatabase)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Warn("rollback failed", "error", rbErr)
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction").
			WithCode(errors.CodeDatabase)
	}

	return nil
}

type migration struct {
	version int
	sql     string
}

func (s *Store) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_version (
			version    INTEGER PRIMARY KEY,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`); err != nil {
		return errors.Wrap(err, "failed to create schema_version table").
			WithCode(errors.CodeDatabase)
	}

	var current int
	if err := s.db.GetContext(ctx, &current,
		`SELECT COALESCE(MAX(version), 0) FROM schema_version`); err != nil {
		return errors.Wrap(err, "failed to read schema version").
			WithCode(errors.CodeDatabase)
	}

	pending := make([]migration, 0, len(migrations))
	for _, m := range migrations {
		if m.version > current {
			pending = append(pending, m)
		}
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].version < pending[j].version })

	for _, m := range pending {
		err := s.Atomic(ctx, func(tx *sqlx.Tx) error {
			if _, err := tx.Exec(m.sql); err != nil {
				return err
			}

			_, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version)
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "failed to apply migration %d", m.version).
				WithCode(errors.CodeDatabase)
		}

		s.logger.Info("applied migration", "version", m.version)
	}

	return nil
}

// ErrNoRows is re-exported so callers needn't import database/sql just to
// compare against sql.ErrNoRows.
var ErrNoRows = sql.ErrNoRows
