package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	cronregistry "github.com/salgue441/jobrunner/internal/cron"
	"github.com/salgue441/jobrunner/internal/executor/script"
	"github.com/salgue441/jobrunner/internal/executor/session"
	"github.com/salgue441/jobrunner/internal/gateway"
	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/notify"
	"github.com/salgue441/jobrunner/internal/runs"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Config carries the tunables the scheduler needs beyond its
// collaborators.
type Config struct {
	DBPath                string
	MaxConcurrency        int
	ShutdownGraceMs       int64
	ReconcileIntervalMs   int64
	DefaultFailureChannel *string
}

// Scheduler is the run controller described by the data-flow in the
// system overview: cron fires -> registry re-reads job -> scheduler
// applies concurrency + overlap -> run row -> executor -> run row
// closed -> notification.
type Scheduler struct {
	cfg Config

	jobs     *jobs.Repository
	runs     *runs.Repository
	registry *cronregistry.Registry
	script   *script.Executor
	session  *session.Executor
	gateway  gateway.Client
	notifier notify.Notifier
	logger   logger.Logger

	mu          sync.Mutex
	runningJobs map[string]bool

	stopReconcile chan struct{}
	reconcileWG   sync.WaitGroup
}

// New wires a Scheduler. The cron registry's OnFire callback must be
// set to scheduler.OnScheduledRun before the registry is started;
// callers construct the registry with that callback (see cmd/jobrunnerd).
func New(
	cfg Config,
	jobRepo *jobs.Repository,
	runRepo *runs.Repository,
	registry *cronregistry.Registry,
	scriptExec *script.Executor,
	sessionExec *session.Executor,
	gatewayClient gateway.Client,
	notifier notify.Notifier,
	log logger.Logger,
) *Scheduler {
	return &Scheduler{
		cfg:         cfg,
		jobs:        jobRepo,
		runs:        runRepo,
		registry:    registry,
		script:      scriptExec,
		session:     sessionExec,
		gateway:     gatewayClient,
		notifier:    notifier,
		logger:      log.Named("scheduler"),
		runningJobs: make(map[string]bool),
	}
}

// Start reconciles once, warns about any jobs whose schedule failed to
// parse, and begins periodic reconciliation if configured.
func (s *Scheduler) Start(ctx context.Context) error {
	result, err := s.registry.Reconcile(ctx)
	if err != nil {
		return err
	}

	s.logger.Info("reconciled cron registry", "enabled", result.TotalEnabled, "failed", len(result.FailedIDs))

	if len(result.FailedIDs) > 0 && s.cfg.DefaultFailureChannel != nil {
		s.notifier.NotifyFailure(ctx, "cron-registry", 0,
			fmt.Sprintf("%d job(s) failed schedule registration: %v", len(result.FailedIDs), result.FailedIDs),
			*s.cfg.DefaultFailureChannel)
	}

	s.registry.Start()

	if s.cfg.ReconcileIntervalMs > 0 {
		s.stopReconcile = make(chan struct{})
		s.reconcileWG.Add(1)
		go s.reconcileLoop()
	}

	return nil
}

func (s *Scheduler) reconcileLoop() {
	defer s.reconcileWG.Done()

	ticker := time.NewTicker(time.Duration(s.cfg.ReconcileIntervalMs) * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopReconcile:
			return
		case <-ticker.C:
			if _, err := s.registry.Reconcile(context.Background()); err != nil {
				s.logger.Error("periodic reconcile failed", "error", err)
			}
		}
	}
}

// Stop halts new scheduled fires, then waits up to shutdownGraceMs for
// in-flight runs to finish naturally.
func (s *Scheduler) Stop() {
	if s.stopReconcile != nil {
		close(s.stopReconcile)
		s.reconcileWG.Wait()
	}

	s.registry.Stop()

	deadline := time.Now().Add(time.Duration(s.cfg.ShutdownGraceMs) * time.Millisecond)
	for time.Now().Before(deadline) {
		if s.runningCount() == 0 {
			return
		}

		time.Sleep(100 * time.Millisecond)
	}

	if n := s.runningCount(); n > 0 {
		s.logger.Warn("shutdown grace period elapsed with jobs still running", "count", n)
	}
}

func (s *Scheduler) runningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.runningJobs)
}

// RunningCount returns the number of jobs currently executing; used by
// GET /stats.
func (s *Scheduler) RunningCount() int {
	return s.runningCount()
}

// ReconcileNow synchronously re-invokes reconcile; called whenever a
// job is enabled or disabled via the API.
func (s *Scheduler) ReconcileNow(ctx context.Context) (cronregistry.ReconcileResult, error) {
	return s.registry.Reconcile(ctx)
}

// TriggerJob looks up a job by id and runs it with trigger=manual.
func (s *Scheduler) TriggerJob(ctx context.Context, id string) (models.ExecutionResult, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		return models.ExecutionResult{}, err
	}

	return s.runJob(ctx, *job, models.TriggerManual)
}

// OnScheduledRun is the cron registry's fire callback. Overlap policy
// is applied only here, not inside runJob, so a manual trigger can
// bypass overlap entirely for allow-policy jobs.
func (s *Scheduler) OnScheduledRun(ctx context.Context, job models.Job) {
	s.mu.Lock()
	alreadyRunning := s.runningJobs[job.ID]
	s.mu.Unlock()

	if alreadyRunning {
		switch job.OverlapPolicy {
		case models.OverlapAllow:
			// fall through to runJob
		default:
			// OverlapSkip and OverlapQueue both skip; "queue" is not
			// yet implemented as an actual queue (see DESIGN.md).
			s.logger.Info("skipping overlapping scheduled run",
				append(logger.JobFields(job.ID), "overlap_policy", job.OverlapPolicy)...)
			return
		}
	}

	if _, err := s.runJob(ctx, job, models.TriggerSchedule); err != nil {
		s.logger.Error("scheduled run failed", append(logger.JobFields(job.ID), "error", err)...)
	}
}

// runJob is the central protocol: admission, run-row open, dispatch,
// run-row close, notification, cleanup.
func (s *Scheduler) runJob(ctx context.Context, job models.Job, trigger models.RunTrigger) (models.ExecutionResult, error) {
	s.mu.Lock()
	if len(s.runningJobs) >= s.cfg.MaxConcurrency {
		s.mu.Unlock()
		s.logger.Warn("rejecting run, concurrency cap reached",
			append(logger.JobFields(job.ID), "max_concurrency", s.cfg.MaxConcurrency)...)
		return models.ExecutionResult{}, errors.RateLimited(
			fmt.Sprintf("concurrency cap of %d reached", s.cfg.MaxConcurrency))
	}

	s.runningJobs[job.ID] = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		delete(s.runningJobs, job.ID)
		s.mu.Unlock()
	}()

	runID, err := s.runs.Open(ctx, job.ID, trigger)
	if err != nil {
		return models.ExecutionResult{}, err
	}

	result := s.dispatch(ctx, job, runID)

	if err := s.runs.Close(ctx, runID, result); err != nil {
		s.logger.Error("failed to close run row", append(logger.RunFields(job.ID, runID), "error", err)...)
	}

	s.dispatchNotification(ctx, job, result)

	return result, nil
}

func (s *Scheduler) dispatch(ctx context.Context, job models.Job, runID int64) models.ExecutionResult {
	var timeoutMs int64
	if job.TimeoutMs != nil {
		timeoutMs = *job.TimeoutMs
	}

	switch job.Type {
	case models.JobTypeSession:
		return s.session.Run(ctx, session.Input{
			Script:    job.Script,
			JobID:     job.ID,
			TimeoutMs: timeoutMs,
			Gateway:   s.gateway,
		})

	default:
		return s.script.Run(ctx, script.Input{
			Script:    job.Script,
			DBPath:    s.cfg.DBPath,
			JobID:     job.ID,
			RunID:     runID,
			TimeoutMs: timeoutMs,
		})
	}
}

func (s *Scheduler) dispatchNotification(ctx context.Context, job models.Job, result models.ExecutionResult) {
	switch {
	case result.Status == models.RunStatusOK && job.OnSuccessChanID != nil:
		s.notifier.NotifySuccess(ctx, job.Name, result.DurationMs, *job.OnSuccessChanID)

	case result.Status != models.RunStatusOK && job.OnFailureChanID != nil:
		errMsg := ""
		if result.Error != nil {
			errMsg = *result.Error
		}

		s.notifier.NotifyFailure(ctx, job.Name, result.DurationMs, errMsg, *job.OnFailureChanID)
	}
}
