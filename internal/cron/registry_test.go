package cron_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	cronregistry "github.com/salgue441/jobrunner/internal/cron"
	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/teststore"
	"github.com/salgue441/jobrunner/pkg/logger"
)

func TestReconcile_RegistersEnabledJobs(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())
	ctx := context.Background()

	job, err := repo.Create(ctx, jobs.CreateInput{
		Name: "a", Schedule: "* * * * * *", Script: "a.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)

	reg := cronregistry.New(repo, func(context.Context, models.Job) {}, logger.NewNop())

	result, err := reg.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalEnabled)
	require.Empty(t, result.FailedIDs)
	_ = job
}

func TestReconcile_RecordsFailedSchedule(t *testing.T) {
	st := teststore.New(t)
	repo := jobs.New(st, logger.NewNop())
	ctx := context.Background()

	job, err := repo.Create(ctx, jobs.CreateInput{
		Name: "a", Schedule: "* * * * *", Script: "a.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)

	_, err = st.DB().ExecContext(ctx, `UPDATE jobs SET schedule = ? WHERE id = ?`, "not a schedule", job.ID)
	require.NoError(t, err)

	reg := cronregistry.New(repo, func(context.Context, models.Job) {}, logger.NewNop())

	result, err := reg.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, result.TotalEnabled)
	require.Equal(t, []string{job.ID}, result.FailedIDs)
	require.Equal(t, []string{job.ID}, reg.FailedRegistrations())
}

func TestReconcile_RemovesDisabledJobs(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())
	ctx := context.Background()

	job, err := repo.Create(ctx, jobs.CreateInput{
		Name: "a", Schedule: "* * * * * *", Script: "a.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)

	reg := cronregistry.New(repo, func(context.Context, models.Job) {}, logger.NewNop())
	_, err = reg.Reconcile(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.SetEnabled(ctx, job.ID, false))

	result, err := reg.Reconcile(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, result.TotalEnabled)
}

func TestFire_SkipsJobDisabledSinceRegistration(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())
	ctx := context.Background()

	job, err := repo.Create(ctx, jobs.CreateInput{
		Name: "a", Schedule: "* * * * * *", Script: "a.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)

	var mu sync.Mutex
	var fired int

	reg := cronregistry.New(repo, func(context.Context, models.Job) {
		mu.Lock()
		fired++
		mu.Unlock()
	}, logger.NewNop())

	_, err = reg.Reconcile(ctx)
	require.NoError(t, err)

	require.NoError(t, repo.SetEnabled(ctx, job.ID, false))

	reg.Start()
	time.Sleep(1200 * time.Millisecond)
	reg.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, 0, fired)
}
