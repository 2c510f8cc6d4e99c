package models

import "time"

// JobType selects which executor runs a job.
type JobType string

const (
	JobTypeScript  JobType = "script"
	JobTypeSession JobType = "session"
)

// OverlapPolicy controls what happens when a scheduled fire finds the
// job already running. Queue is accepted but currently behaves like Skip
// (spec open question — see DESIGN.md).
type OverlapPolicy string

const (
	OverlapSkip  OverlapPolicy = "skip"
	OverlapQueue OverlapPolicy = "queue"
	OverlapAllow OverlapPolicy = "allow"
)

// Job is a persistent declaration of work, triggered on a cron schedule.
type Job struct {
	ID              string        `db:"id" json:"id"`
	Name            string        `db:"name" json:"name"`
	Schedule        string        `db:"schedule" json:"schedule"`
	Script          string        `db:"script" json:"script"`
	Type            JobType       `db:"type" json:"type"`
	Description     *string       `db:"description" json:"description,omitempty"`
	Enabled         bool          `db:"enabled" json:"enabled"`
	TimeoutMs       *int64        `db:"timeout_ms" json:"timeoutMs,omitempty"`
	OverlapPolicy   OverlapPolicy `db:"overlap_policy" json:"overlapPolicy"`
	OnFailureChanID *string       `db:"on_failure_channel_id" json:"onFailureChannelId,omitempty"`
	OnSuccessChanID *string       `db:"on_success_channel_id" json:"onSuccessChannelId,omitempty"`
	CreatedAt       time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time     `db:"updated_at" json:"updatedAt"`
}

// RunStatus is the terminal (or pending/running) state of a Run.
type RunStatus string

const (
	RunStatusPending RunStatus = "pending"
	RunStatusRunning RunStatus = "running"
	RunStatusOK      RunStatus = "ok"
	RunStatusError   RunStatus = "error"
	RunStatusTimeout RunStatus = "timeout"
	RunStatusSkipped RunStatus = "skipped"
)

// RunTrigger records what caused a run to start.
type RunTrigger string

const (
	TriggerSchedule RunTrigger = "schedule"
	TriggerManual   RunTrigger = "manual"
	TriggerRetry    RunTrigger = "retry"
)

// Run is one attempt to execute a Job.
type Run struct {
	ID          int64      `db:"id" json:"id"`
	JobID       string     `db:"job_id" json:"jobId"`
	Status      RunStatus  `db:"status" json:"status"`
	StartedAt   time.Time  `db:"started_at" json:"startedAt"`
	FinishedAt  *time.Time `db:"finished_at" json:"finishedAt,omitempty"`
	DurationMs  *int64     `db:"duration_ms" json:"durationMs,omitempty"`
	ExitCode    *int       `db:"exit_code" json:"exitCode,omitempty"`
	Tokens      *int64     `db:"tokens" json:"tokens,omitempty"`
	ResultMeta  *string    `db:"result_meta" json:"resultMeta,omitempty"`
	Error       *string    `db:"error" json:"error,omitempty"`
	StdoutTail  *string    `db:"stdout_tail" json:"stdoutTail,omitempty"`
	StderrTail  *string    `db:"stderr_tail" json:"stderrTail,omitempty"`
	Trigger     RunTrigger `db:"trigger" json:"trigger"`
}

// ExecutionResult is what an executor returns after a run finishes; the
// scheduler copies it onto the Run row unchanged.
type ExecutionResult struct {
	Status     RunStatus
	DurationMs int64
	ExitCode   *int
	Tokens     *int64
	ResultMeta *string
	Error      *string
	StdoutTail string
	StderrTail string
}
