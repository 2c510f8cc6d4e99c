package scheduler_test

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cronregistry "github.com/salgue441/jobrunner/internal/cron"
	"github.com/salgue441/jobrunner/internal/executor/script"
	"github.com/salgue441/jobrunner/internal/executor/session"
	"github.com/salgue441/jobrunner/internal/gateway"
	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/runs"
	"github.com/salgue441/jobrunner/internal/scheduler"
	"github.com/salgue441/jobrunner/internal/teststore"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

type recordingNotifier struct {
	successes []string
	failures  []string
}

func (r *recordingNotifier) NotifySuccess(_ context.Context, jobName string, _ int64, _ string) {
	r.successes = append(r.successes, jobName)
}

func (r *recordingNotifier) NotifyFailure(_ context.Context, jobName string, _ int64, _ string, _ string) {
	r.failures = append(r.failures, jobName)
}

type noopGateway struct{}

func (noopGateway) SpawnSession(context.Context, string, gateway.SpawnOptions) (gateway.SpawnResult, error) {
	return gateway.SpawnResult{}, nil
}
func (noopGateway) IsSessionComplete(context.Context, string) (bool, error) { return true, nil }
func (noopGateway) GetSessionInfo(context.Context, string) (*gateway.SessionInfo, error) {
	return nil, nil
}

func newTestScheduler(t *testing.T, maxConcurrency int, notifier *recordingNotifier) (*scheduler.Scheduler, *jobs.Repository, *runs.Repository) {
	t.Helper()

	st := teststore.New(t)
	jobRepo := jobs.New(st, logger.NewNop())
	runRepo := runs.New(st, logger.NewNop())
	registry := cronregistry.New(jobRepo, func(context.Context, models.Job) {}, logger.NewNop())

	sched := scheduler.New(
		scheduler.Config{
			DBPath:              "test.sqlite",
			MaxConcurrency:      maxConcurrency,
			ShutdownGraceMs:     1000,
			ReconcileIntervalMs: 0,
		},
		jobRepo, runRepo, registry,
		script.New(logger.NewNop()),
		session.New(logger.NewNop()),
		noopGateway{},
		notifier,
		logger.NewNop(),
	)

	return sched, jobRepo, runRepo
}

func writeExitScript(t *testing.T, code int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "job.sh")
	content := "#!/bin/bash\nexit " + strconv.Itoa(code) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

// writeGatedScript returns a script path that blocks until signalFile
// exists, polling every 10ms, then exits 0. Used to hold a run "in flight"
// long enough for a concurrent scheduler call to observe it.
func writeGatedScript(t *testing.T, signalFile string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gated.sh")
	content := "#!/bin/bash\nwhile [ ! -f " + signalFile + " ]; do sleep 0.01; done\nexit 0\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o755))
	return path
}

func TestTriggerJob_RunsScriptJobSuccessfully(t *testing.T) {
	notifier := &recordingNotifier{}
	sched, jobRepo, _ := newTestScheduler(t, 4, notifier)
	ctx := context.Background()

	channel := "C123"
	job, err := jobRepo.Create(ctx, jobs.CreateInput{
		Name: "nightly-report", Schedule: "0 2 * * *", Script: writeExitScript(t, 0),
		Type: models.JobTypeScript, OnSuccessChanID: &channel,
	})
	require.NoError(t, err)

	result, err := sched.TriggerJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.RunStatusOK, result.Status)
	require.Equal(t, []string{"nightly-report"}, notifier.successes)
}

func TestTriggerJob_RecordsFailureAndNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	sched, jobRepo, _ := newTestScheduler(t, 4, notifier)
	ctx := context.Background()

	channel := "C123"
	job, err := jobRepo.Create(ctx, jobs.CreateInput{
		Name: "flaky-job", Schedule: "0 2 * * *", Script: writeExitScript(t, 1),
		Type: models.JobTypeScript, OnFailureChanID: &channel,
	})
	require.NoError(t, err)

	result, err := sched.TriggerJob(ctx, job.ID)
	require.NoError(t, err)
	require.Equal(t, models.RunStatusError, result.Status)
	require.Equal(t, []string{"flaky-job"}, notifier.failures)
}

func TestTriggerJob_UnknownJobReturnsNotFound(t *testing.T) {
	sched, _, _ := newTestScheduler(t, 4, &recordingNotifier{})

	_, err := sched.TriggerJob(context.Background(), "does-not-exist")
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestOnScheduledRun_SkipsWhenAlreadyRunningAndPolicyIsSkip(t *testing.T) {
	sched, jobRepo, runRepo := newTestScheduler(t, 4, &recordingNotifier{})
	ctx := context.Background()

	signalFile := filepath.Join(t.TempDir(), "go")
	job, err := jobRepo.Create(ctx, jobs.CreateInput{
		Name: "job", Schedule: "0 2 * * *", Script: writeGatedScript(t, signalFile),
		Type: models.JobTypeScript, OverlapPolicy: models.OverlapSkip,
	})
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		sched.OnScheduledRun(ctx, *job)
	}()

	require.Eventually(t, func() bool {
		return sched.RunningCount() == 1
	}, time.Second, 5*time.Millisecond, "first run never reached in-flight state")

	// The first (still in-flight) run has already opened its row.
	recent, err := runRepo.Recent(ctx, job.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)

	// Fires while the first run is still in flight; OverlapSkip must skip
	// it without opening a second run row (invariant P6).
	sched.OnScheduledRun(ctx, *job)

	recent, err = runRepo.Recent(ctx, job.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1, "overlapping run must not open a second run row")

	require.NoError(t, os.WriteFile(signalFile, []byte("go"), 0o644))
	<-done

	recent, err = runRepo.Recent(ctx, job.ID, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1, "exactly one run row should exist once the gated run completes")
}
