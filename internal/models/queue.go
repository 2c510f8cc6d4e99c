package models

import "time"

// DedupScope controls which item statuses participate in duplicate
// detection for a queue.
type DedupScope string

const (
	DedupScopePending DedupScope = "pending"
	DedupScopeAll     DedupScope = "all"
)

// QueueStatus is the lifecycle state of a QueueItem.
type QueueStatus string

const (
	QueueStatusPending    QueueStatus = "pending"
	QueueStatusProcessing QueueStatus = "processing"
	QueueStatusDone       QueueStatus = "done"
	QueueStatusFailed     QueueStatus = "failed"
)

// QueueDef declares a named queue and its defaults.
type QueueDef struct {
	ID            string     `db:"id" json:"id"`
	Name          string     `db:"name" json:"name"`
	DedupExpr     *string    `db:"dedup_expr" json:"dedupExpr,omitempty"`
	DedupScope    DedupScope `db:"dedup_scope" json:"dedupScope"`
	MaxAttempts   int        `db:"max_attempts" json:"maxAttempts"`
	RetentionDays int        `db:"retention_days" json:"retentionDays"`
}

// DefaultMaxAttempts and DefaultRetentionDays apply per invariant I3 when
// an item's queue has no registered definition.
const (
	DefaultMaxAttempts   = 1
	DefaultRetentionDays = 7
)

// QueueItem is a unit of durable work inside a queue.
type QueueItem struct {
	ID          int64       `db:"id" json:"id"`
	QueueID     string      `db:"queue_id" json:"queueId"`
	Payload     string      `db:"payload" json:"payload"`
	Status      QueueStatus `db:"status" json:"status"`
	Priority    int         `db:"priority" json:"priority"`
	Attempts    int         `db:"attempts" json:"attempts"`
	MaxAttempts int         `db:"max_attempts" json:"maxAttempts"`
	DedupKey    *string     `db:"dedup_key" json:"dedupKey,omitempty"`
	Error       *string     `db:"error" json:"error,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	ClaimedAt   *time.Time  `db:"claimed_at" json:"claimedAt,omitempty"`
	FinishedAt  *time.Time  `db:"finished_at" json:"finishedAt,omitempty"`
}
