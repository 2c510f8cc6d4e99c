// Package api exposes the job runner's loopback-bound HTTP surface:
// health, job listing/detail/runs, manual trigger, enable/disable, and
// aggregate stats. Route plumbing is a thin layer over jobs.Repository,
// runs.Repository, and scheduler.Scheduler; all business logic lives in
// those packages.
package api
