// Package cron wraps robfig/cron/v3 with the registration bookkeeping
// the scheduler needs: a job id to schedule-handle map, detection of
// schedule drift between reconcile passes, and a failed-registration
// set surfaced through /stats.
package cron
