package queue_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/queue"
	"github.com/salgue441/jobrunner/internal/teststore"
	"github.com/salgue441/jobrunner/pkg/logger"
)

func TestPruneRetention_RemovesPastEffectiveWindow(t *testing.T) {
	st := teststore.New(t)
	eng := queue.New(st, logger.NewNop())
	ctx := context.Background()

	require.NoError(t, eng.EnsureDefinition(ctx, models.QueueDef{
		ID: "short-retention", Name: "short", MaxAttempts: 1, RetentionDays: 1,
	}))

	id, err := eng.Enqueue(ctx, "short-retention", queue.EnqueueOptions{Payload: "{}"})
	require.NoError(t, err)

	_, err = eng.Dequeue(ctx, "short-retention", 1)
	require.NoError(t, err)
	require.NoError(t, eng.Done(ctx, id))

	old := time.Now().AddDate(0, 0, -2)
	_, err = st.DB().ExecContext(ctx, `UPDATE queue_items SET finished_at = ? WHERE id = ?`, old, id)
	require.NoError(t, err)

	deleted, err := eng.PruneRetention(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), deleted)

	_, err = eng.Get(ctx, id)
	require.Error(t, err)
}

func TestPruneRetention_KeepsItemsWithinWindow(t *testing.T) {
	st := teststore.New(t)
	eng := queue.New(st, logger.NewNop())
	ctx := context.Background()

	id, err := eng.Enqueue(ctx, "undefined-queue", queue.EnqueueOptions{Payload: "{}"})
	require.NoError(t, err)

	_, err = eng.Dequeue(ctx, "undefined-queue", 1)
	require.NoError(t, err)
	require.NoError(t, eng.Done(ctx, id))

	deleted, err := eng.PruneRetention(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(0), deleted)

	item, err := eng.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, models.QueueStatusDone, item.Status)
}
