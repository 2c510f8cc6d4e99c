package store

// migrations are applied in ascending version order, each inside its own
// transaction alongside the schema_version insert (see Store.migrate).
// They are forward-only: once shipped, a migration's SQL never changes.
var migrations = []migration{
	{version: 1, sql: schemaV1},
}

const schemaV1 = `
CREATE TABLE jobs (
	id                     TEXT PRIMARY KEY,
	name                   TEXT NOT NULL,
	schedule               TEXT NOT NULL,
	script                 TEXT NOT NULL,
	type                   TEXT NOT NULL CHECK (type IN ('script', 'session')),
	description            TEXT,
	enabled                INTEGER NOT NULL DEFAULT 1,
	timeout_ms             INTEGER,
	overlap_policy         TEXT NOT NULL DEFAULT 'skip' CHECK (overlap_policy IN ('skip', 'queue', 'allow')),
	on_failure_channel_id  TEXT,
	on_success_channel_id  TEXT,
	created_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE runs (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id       TEXT NOT NULL REFERENCES jobs(id),
	status       TEXT NOT NULL CHECK (status IN ('pending', 'running', 'ok', 'error', 'timeout', 'skipped')),
	started_at   TIMESTAMP NOT NULL,
	finished_at  TIMESTAMP,
	duration_ms  INTEGER,
	exit_code    INTEGER,
	tokens       INTEGER,
	result_meta  TEXT,
	error        TEXT,
	stdout_tail  TEXT,
	stderr_tail  TEXT,
	trigger      TEXT NOT NULL CHECK (trigger IN ('schedule', 'manual', 'retry'))
);

CREATE INDEX idx_runs_job_id ON runs(job_id, started_at DESC);
CREATE INDEX idx_runs_status ON runs(status);
CREATE INDEX idx_runs_started_at ON runs(started_at);

CREATE TABLE state (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	value      TEXT,
	expires_at TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key)
);

CREATE INDEX idx_state_expires_at ON state(expires_at) WHERE expires_at IS NOT NULL;

CREATE TABLE state_items (
	namespace  TEXT NOT NULL,
	key        TEXT NOT NULL,
	item_key   TEXT NOT NULL,
	value      TEXT,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (namespace, key, item_key),
	FOREIGN KEY (namespace, key) REFERENCES state(namespace, key) ON DELETE CASCADE
);

CREATE INDEX idx_state_items_parent ON state_items(namespace, key, updated_at DESC);

CREATE TABLE queue_defs (
	id             TEXT PRIMARY KEY,
	name           TEXT NOT NULL,
	dedup_expr     TEXT,
	dedup_scope    TEXT NOT NULL DEFAULT 'pending' CHECK (dedup_scope IN ('pending', 'all')),
	max_attempts   INTEGER NOT NULL DEFAULT 1,
	retention_days INTEGER NOT NULL DEFAULT 7
);

CREATE TABLE queue_items (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	queue_id     TEXT NOT NULL,
	payload      TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'processing', 'done', 'failed')),
	priority     INTEGER NOT NULL DEFAULT 0,
	attempts     INTEGER NOT NULL DEFAULT 0,
	max_attempts INTEGER NOT NULL DEFAULT 1,
	dedup_key    TEXT,
	error        TEXT,
	created_at   TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	claimed_at   TIMESTAMP,
	finished_at  TIMESTAMP
);

CREATE INDEX idx_queue_items_dequeue ON queue_items(queue_id, status, priority DESC, created_at ASC);
CREATE INDEX idx_queue_items_dedup ON queue_items(queue_id, dedup_key, status);
CREATE INDEX idx_queue_items_finished ON queue_items(status, finished_at);
`
