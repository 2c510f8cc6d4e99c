package queue

import "github.com/salgue441/jobrunner/internal/models"

// Skipped is returned by Enqueue when a dedup key collides with an
// existing item in scope.
const Skipped int64 = -1

// EnqueueOptions carries the optional per-item overrides for Enqueue.
// MaxAttempts, when zero, defers to the queue definition's default, then
// to models.DefaultMaxAttempts.
type EnqueueOptions struct {
	Payload     string
	Priority    int
	MaxAttempts int
}

// Item pairs a claimed queue item's id with its payload, returned as the
// stored JSON string.
type Item struct {
	ID      int64
	Payload string
}

func resolveMaxAttempts(opt int, def *models.QueueDef) int {
	if opt > 0 {
		return opt
	}

	if def != nil && def.MaxAttempts > 0 {
		return def.MaxAttempts
	}

	return models.DefaultMaxAttempts
}

func resolveRetentionDays(def *models.QueueDef) int {
	if def != nil && def.RetentionDays > 0 {
		return def.RetentionDays
	}

	return models.DefaultRetentionDays
}
