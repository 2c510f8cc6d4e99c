package script

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Input describes one script job run.
type Input struct {
	Script    string
	DBPath    string
	JobID     string
	RunID     int64
	TimeoutMs int64 // 0 = no timeout
}

// Executor spawns child processes for script-type jobs.
type Executor struct {
	logger logger.Logger
}

// New creates a script Executor.
func New(log logger.Logger) *Executor {
	return &Executor{logger: log.Named("script-executor")}
}

// Run resolves the command for in.Script, spawns it with the job-script
// environment contract, captures bounded tails of stdout/stderr, and
// maps its termination into an ExecutionResult.
func (e *Executor) Run(ctx context.Context, in Input) models.ExecutionResult {
	start := time.Now()

	command, args := resolveCommand(in.Script)
	cmd := exec.Command(command, args...)
	cmd.Env = append(os.Environ(),
		"JR_DB_PATH="+in.DBPath,
		"JR_JOB_ID="+in.JobID,
		"JR_RUN_ID="+strconv.FormatInt(in.RunID, 10),
	)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return spawnError(err, start)
	}

	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return spawnError(err, start)
	}

	if err := cmd.Start(); err != nil {
		return spawnError(err, start)
	}

	stdoutTail := &ringTail{}
	stderrTail := &ringTail{}
	marker := &resultMarker{}

	var pumps sync.WaitGroup
	pumps.Add(2)
	go func() {
		defer pumps.Done()
		pump(stdoutPipe, stdoutTail, marker.scan)
	}()
	go func() {
		defer pumps.Done()
		pump(stderrPipe, stderrTail, nil)
	}()

	var timedOut atomic.Bool
	var timer *time.Timer
	if in.TimeoutMs > 0 {
		timer = time.AfterFunc(time.Duration(in.TimeoutMs)*time.Millisecond, func() {
			timedOut.Store(true)
			terminateGracefully(cmd)
			time.AfterFunc(5*time.Second, func() {
				killForcefully(cmd)
			})
		})
	}

	waitErr := cmd.Wait()
	pumps.Wait()
	if timer != nil {
		timer.Stop()
	}

	duration := time.Since(start).Milliseconds()

	if timedOut.Load() {
		return models.ExecutionResult{
			Status:     models.RunStatusTimeout,
			DurationMs: duration,
			Error:      strPtr(fmt.Sprintf("Job timed out after %dms", in.TimeoutMs)),
			StdoutTail: stdoutTail.String(),
			StderrTail: stderrTail.String(),
		}
	}

	tokens, meta := marker.result()

	exitCode := cmd.ProcessState.ExitCode()
	if waitErr == nil && exitCode == 0 {
		return models.ExecutionResult{
			Status:     models.RunStatusOK,
			DurationMs: duration,
			ExitCode:   intPtr(0),
			Tokens:     tokens,
			ResultMeta: meta,
			StdoutTail: stdoutTail.String(),
			StderrTail: stderrTail.String(),
		}
	}

	errMsg := stderrTail.String()
	if errMsg == "" {
		errMsg = fmt.Sprintf("Exit code %d", exitCode)
	}

	return models.ExecutionResult{
		Status:     models.RunStatusError,
		DurationMs: duration,
		ExitCode:   intPtr(exitCode),
		Error:      strPtr(errMsg),
		StdoutTail: stdoutTail.String(),
		StderrTail: stderrTail.String(),
	}
}

func spawnError(err error, start time.Time) models.ExecutionResult {
	return models.ExecutionResult{
		Status:     models.RunStatusError,
		DurationMs: time.Since(start).Milliseconds(),
		Error:      strPtr(errors.Wrap(err, "failed to spawn script").Error()),
	}
}

func terminateGracefully(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	_ = cmd.Process.Signal(syscall.SIGTERM)
}

func killForcefully(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}

	_ = cmd.Process.Kill()
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }
