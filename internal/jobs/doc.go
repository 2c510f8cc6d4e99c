// Package jobs persists job definitions and provides the lookups the
// cron registry, scheduler, and HTTP API share: create, enable toggle,
// single-row fetch, full listing, and the enabled-set scan used by
// reconcile. There is no operation for editing a job's other fields.
package jobs
