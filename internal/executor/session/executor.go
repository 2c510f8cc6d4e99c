package session

import (
	"context"
	"time"

	"github.com/salgue441/jobrunner/internal/gateway"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
	"github.com/salgue441/jobrunner/pkg/retry"
)

const (
	DefaultTimeoutMs      = 300_000
	DefaultPollIntervalMs = 5_000
)

// Input describes one session job run.
type Input struct {
	Script         string
	JobID          string
	TimeoutMs      int64 // 0 = DefaultTimeoutMs
	PollIntervalMs int64 // 0 = DefaultPollIntervalMs
	Gateway        gateway.Client
}

// Executor dispatches session-type jobs to a remote gateway.
type Executor struct {
	logger logger.Logger
}

// New creates a session Executor.
func New(log logger.Logger) *Executor {
	return &Executor{logger: log.Named("session-executor")}
}

// Run resolves the prompt, spawns a remote session, polls for
// completion with capped exponential backoff, and retrieves token
// accounting on success.
func (e *Executor) Run(ctx context.Context, in Input) models.ExecutionResult {
	start := time.Now()

	prompt, err := resolvePrompt(in.Script)
	if err != nil {
		return errResult(err, start)
	}

	timeoutMs := in.TimeoutMs
	if timeoutMs <= 0 {
		timeoutMs = DefaultTimeoutMs
	}

	pollIntervalMs := in.PollIntervalMs
	if pollIntervalMs <= 0 {
		pollIntervalMs = DefaultPollIntervalMs
	}

	spawned, err := in.Gateway.SpawnSession(ctx, prompt, gateway.SpawnOptions{
		Label:             in.JobID,
		Thinking:          "low",
		RunTimeoutSeconds: timeoutMs / 1000,
	})
	if err != nil {
		return errResult(errors.Wrap(err, "failed to spawn session"), start)
	}

	backoff := retry.NewSessionPollBackoff(pollIntervalMs)

	deadline := start.Add(time.Duration(timeoutMs) * time.Millisecond)

	for attempt := 1; ; attempt++ {
		if time.Now().After(deadline) {
			return models.ExecutionResult{
				Status:     models.RunStatusTimeout,
				DurationMs: time.Since(start).Milliseconds(),
				Error:      strPtr("session timed out before completion"),
			}
		}

		complete, err := in.Gateway.IsSessionComplete(ctx, spawned.SessionKey)
		if err != nil {
			return errResult(errors.Wrap(err, "failed to poll session status"), start)
		}

		if complete {
			break
		}

		select {
		case <-ctx.Done():
			return errResult(ctx.Err(), start)
		case <-time.After(backoff.Next(attempt)):
		}
	}

	info, err := in.Gateway.GetSessionInfo(ctx, spawned.SessionKey)
	if err != nil {
		return errResult(errors.Wrap(err, "failed to retrieve session info"), start)
	}

	var tokens *int64
	if info != nil {
		tokens = int64Ptr(info.TotalTokens)
	}

	return models.ExecutionResult{
		Status:     models.RunStatusOK,
		DurationMs: time.Since(start).Milliseconds(),
		Tokens:     tokens,
		ResultMeta: strPtr(spawned.SessionKey),
		StdoutTail: "Session completed: " + spawned.SessionKey,
	}
}

func errResult(err error, start time.Time) models.ExecutionResult {
	return models.ExecutionResult{
		Status:     models.RunStatusError,
		DurationMs: time.Since(start).Milliseconds(),
		Error:      strPtr(err.Error()),
	}
}

func strPtr(s string) *string { return &s }
func int64Ptr(i int64) *int64 { return &i }
