package session

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/salgue441/jobrunner/internal/gateway"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/pkg/logger"
	"github.com/stretchr/testify/require"
)

// fakeGateway is a hand-written stand-in for gateway.Client; there is no
// real gateway to call in tests.
type fakeGateway struct {
	spawnErr      error
	completeAfter int32 // IsSessionComplete returns true once called this many times
	completeCalls int32
	completeErr   error
	info          *gateway.SessionInfo
	infoErr       error

	spawnedPrompt string
	spawnedOpts   gateway.SpawnOptions
}

func (f *fakeGateway) SpawnSession(_ context.Context, prompt string, opts gateway.SpawnOptions) (gateway.SpawnResult, error) {
	f.spawnedPrompt = prompt
	f.spawnedOpts = opts
	if f.spawnErr != nil {
		return gateway.SpawnResult{}, f.spawnErr
	}
	return gateway.SpawnResult{SessionKey: "sess-1", RunID: "run-1"}, nil
}

func (f *fakeGateway) IsSessionComplete(_ context.Context, _ string) (bool, error) {
	if f.completeErr != nil {
		return false, f.completeErr
	}
	n := atomic.AddInt32(&f.completeCalls, 1)
	return n >= f.completeAfter, nil
}

func (f *fakeGateway) GetSessionInfo(_ context.Context, _ string) (*gateway.SessionInfo, error) {
	if f.infoErr != nil {
		return nil, f.infoErr
	}
	return f.info, nil
}

func TestRun_SpawnsAndCompletesImmediately(t *testing.T) {
	fg := &fakeGateway{completeAfter: 1, info: &gateway.SessionInfo{TotalTokens: 42, Model: "test"}}
	exec := New(logger.NewNop())

	result := exec.Run(context.Background(), Input{
		Script:         "do the thing",
		JobID:          "job-1",
		PollIntervalMs: 1,
		Gateway:        fg,
	})

	require.Equal(t, models.RunStatusOK, result.Status)
	require.NotNil(t, result.Tokens)
	require.Equal(t, int64(42), *result.Tokens)
	require.Equal(t, "sess-1", *result.ResultMeta)
	require.Equal(t, "job-1", fg.spawnedOpts.Label)
	require.Equal(t, "low", fg.spawnedOpts.Thinking)
	require.Equal(t, "do the thing", fg.spawnedPrompt)
}

func TestRun_TimesOutWhenNeverComplete(t *testing.T) {
	fg := &fakeGateway{completeAfter: 1_000_000}
	exec := New(logger.NewNop())

	result := exec.Run(context.Background(), Input{
		Script:         "do the thing",
		JobID:          "job-1",
		TimeoutMs:      5,
		PollIntervalMs: 1,
		Gateway:        fg,
	})

	require.Equal(t, models.RunStatusTimeout, result.Status)
}

func TestRun_SpawnErrorReturnsErrorStatus(t *testing.T) {
	fg := &fakeGateway{spawnErr: require.AnError}
	exec := New(logger.NewNop())

	result := exec.Run(context.Background(), Input{
		Script:  "do the thing",
		JobID:   "job-1",
		Gateway: fg,
	})

	require.Equal(t, models.RunStatusError, result.Status)
	require.NotNil(t, result.Error)
}

func TestRun_ToleratesNilSessionInfo(t *testing.T) {
	fg := &fakeGateway{completeAfter: 1, info: nil}
	exec := New(logger.NewNop())

	result := exec.Run(context.Background(), Input{
		Script:         "do the thing",
		JobID:          "job-1",
		PollIntervalMs: 1,
		Gateway:        fg,
	})

	require.Equal(t, models.RunStatusOK, result.Status)
	require.Nil(t, result.Tokens)
}

func TestRun_ReadsPromptFromMarkdownFile(t *testing.T) {
	dir := t.TempDir()
	promptPath := filepath.Join(dir, "prompt.md")
	require.NoError(t, os.WriteFile(promptPath, []byte("summarize the logs"), 0o644))

	fg := &fakeGateway{completeAfter: 1}
	exec := New(logger.NewNop())

	result := exec.Run(context.Background(), Input{
		Script:         promptPath,
		JobID:          "job-1",
		PollIntervalMs: 1,
		Gateway:        fg,
	})

	require.Equal(t, models.RunStatusOK, result.Status)
	require.Equal(t, "summarize the logs", fg.spawnedPrompt)
}

func TestRun_RejectsScriptExtension(t *testing.T) {
	fg := &fakeGateway{completeAfter: 1}
	exec := New(logger.NewNop())

	result := exec.Run(context.Background(), Input{
		Script:  "run.js",
		JobID:   "job-1",
		Gateway: fg,
	})

	require.Equal(t, models.RunStatusError, result.Status)
	require.Contains(t, *result.Error, "type=script")
}
