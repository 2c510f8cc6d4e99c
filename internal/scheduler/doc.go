// Package scheduler is the run controller: it applies the concurrency
// cap and overlap policy, opens and closes run rows, dispatches to the
// right executor by job type, and fires notifications. It is the glue
// between the cron registry and everything else.
package scheduler
