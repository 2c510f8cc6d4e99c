package jobs_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/teststore"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

func TestCreate_AssignsIDAndDefaults(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())
	ctx := context.Background()

	job, err := repo.Create(ctx, jobs.CreateInput{
		Name:     "nightly-report",
		Schedule: "0 2 * * *",
		Script:   "report.js",
		Type:     models.JobTypeScript,
	})

	require.NoError(t, err)
	require.NotEmpty(t, job.ID)
	require.True(t, job.Enabled)
	require.Equal(t, models.OverlapSkip, job.OverlapPolicy)
}

func TestCreate_RejectsBadSchedule(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())

	_, err := repo.Create(context.Background(), jobs.CreateInput{
		Name:     "broken",
		Schedule: "not a schedule",
		Script:   "x.js",
		Type:     models.JobTypeScript,
	})

	require.Error(t, err)
}

func TestCreate_RejectsUnknownType(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())

	_, err := repo.Create(context.Background(), jobs.CreateInput{
		Name:     "broken",
		Schedule: "* * * * *",
		Script:   "x.js",
		Type:     "bogus",
	})

	require.Error(t, err)
	require.True(t, errors.IsValidation(err))
}

func TestGetEnabled_ExcludesDisabled(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())
	ctx := context.Background()

	job, err := repo.Create(ctx, jobs.CreateInput{
		Name: "job", Schedule: "* * * * *", Script: "x.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetEnabled(ctx, job.ID, false))

	_, err = repo.GetEnabled(ctx, job.ID)
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}

func TestListEnabled_OnlyReturnsEnabledJobs(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())
	ctx := context.Background()

	a, err := repo.Create(ctx, jobs.CreateInput{
		Name: "a", Schedule: "* * * * *", Script: "a.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)

	b, err := repo.Create(ctx, jobs.CreateInput{
		Name: "b", Schedule: "* * * * *", Script: "b.js", Type: models.JobTypeScript,
	})
	require.NoError(t, err)
	require.NoError(t, repo.SetEnabled(ctx, b.ID, false))

	list, err := repo.ListEnabled(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)
}

func TestSetEnabled_UnknownJobReturnsNotFound(t *testing.T) {
	repo := jobs.New(teststore.New(t), logger.NewNop())

	err := repo.SetEnabled(context.Background(), "does-not-exist", true)
	require.Error(t, err)
	require.True(t, errors.IsNotFound(err))
}
