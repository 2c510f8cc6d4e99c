package cron

import (
	"context"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/pkg/cronexpr"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// OnFire is invoked once per cron tick for a job that was freshly
// re-read as enabled. ctx carries no request-scoped values; it is a
// background context bound to the registry's lifetime.
type OnFire func(ctx context.Context, job models.Job)

type entry struct {
	id       cron.EntryID
	schedule string
}

// Registry binds job ids to robfig/cron schedule handles and re-reads
// the job row from the store on every fire, so live edits via the API
// take effect without a restart.
type Registry struct {
	cron   *cron.Cron
	jobs   *jobs.Repository
	onFire OnFire
	logger logger.Logger

	mu      sync.Mutex
	entries map[string]entry
	failed  map[string]bool
}

// New creates a Registry. onFire is called synchronously from the
// cron goroutine for every job re-read as enabled at fire time.
func New(jobRepo *jobs.Repository, onFire OnFire, log logger.Logger) *Registry {
	return &Registry{
		cron:    cron.New(cron.WithParser(cronexpr.Parser)),
		jobs:    jobRepo,
		onFire:  onFire,
		logger:  log.Named("cron-registry"),
		entries: make(map[string]entry),
		failed:  make(map[string]bool),
	}
}

// Start begins firing registered schedules.
func (r *Registry) Start() {
	r.cron.Start()
}

// Stop halts the underlying scheduler and waits for any running fire
// callbacks to return.
func (r *Registry) Stop() {
	<-r.cron.Stop().Done()
}

// ReconcileResult summarizes one reconcile() pass.
type ReconcileResult struct {
	TotalEnabled int
	FailedIDs    []string
}

// Reconcile loads every enabled job, removes registrations for jobs no
// longer enabled, registers newly-enabled jobs, and re-registers jobs
// whose schedule token changed since the last pass.
func (r *Registry) Reconcile(ctx context.Context) (ReconcileResult, error) {
	loaded, err := r.jobs.ListEnabled(ctx)
	if err != nil {
		return ReconcileResult{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	loadedIDs := make(map[string]models.Job, len(loaded))
	for _, j := range loaded {
		loadedIDs[j.ID] = j
	}

	for id, e := range r.entries {
		if _, ok := loadedIDs[id]; !ok {
			r.cron.Remove(e.id)
			delete(r.entries, id)
			delete(r.failed, id)
		}
	}

	for id, job := range loadedIDs {
		existing, registered := r.entries[id]
		switch {
		case !registered:
			r.registerLocked(job)
		case existing.schedule != job.Schedule:
			r.cron.Remove(existing.id)
			delete(r.entries, id)
			r.registerLocked(job)
		}
	}

	failed := make([]string, 0, len(r.failed))
	for id := range r.failed {
		failed = append(failed, id)
	}

	return ReconcileResult{TotalEnabled: len(loaded), FailedIDs: failed}, nil
}

// registerLocked must be called with r.mu held.
func (r *Registry) registerLocked(job models.Job) {
	id := job.ID
	entryID, err := r.cron.AddFunc(job.Schedule, func() { r.fire(id) })
	if err != nil {
		r.logger.Error("failed to register job schedule",
			append(logger.JobFields(id), "schedule", job.Schedule, "error", err)...)
		r.failed[id] = true
		return
	}

	delete(r.failed, id)
	r.entries[id] = entry{id: entryID, schedule: job.Schedule}
}

// fire re-reads the job row before invoking onFire, so a job disabled
// or deleted between registration and this tick is skipped rather than
// run from a stale closure.
func (r *Registry) fire(id string) {
	ctx := context.Background()

	job, err := r.jobs.GetEnabled(ctx, id)
	if err != nil {
		r.logger.Info("skipping fire for missing or disabled job", logger.JobFields(id)...)
		return
	}

	r.onFire(ctx, *job)
}

// FailedRegistrations returns the ids whose last registration attempt
// failed to parse their schedule.
func (r *Registry) FailedRegistrations() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.failed))
	for id := range r.failed {
		out = append(out, id)
	}

	return out
}
