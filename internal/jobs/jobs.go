package jobs

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/errors"
	"github.com/salgue441/jobrunner/pkg/logger"
	"github.com/salgue441/jobrunner/pkg/validation"
)

// Repository persists job definitions.
type Repository struct {
	store  *store.Store
	logger logger.Logger
}

// New creates a job Repository backed by st.
func New(st *store.Store, log logger.Logger) *Repository {
	return &Repository{store: st, logger: log.Named("jobs")}
}

// CreateInput is the subset of Job fields a caller supplies; Create fills
// in id and timestamps.
type CreateInput struct {
	Name            string
	Schedule        string
	Script          string
	Type            models.JobType
	Description     *string
	TimeoutMs       *int64
	OverlapPolicy   models.OverlapPolicy
	OnFailureChanID *string
	OnSuccessChanID *string
}

// Create validates and inserts a new job, returning the persisted row.
func (r *Repository) Create(ctx context.Context, in CreateInput) (*models.Job, error) {
	if in.OverlapPolicy == "" {
		in.OverlapPolicy = models.OverlapSkip
	}

	if err := validation.Validate(
		validation.NewField("name", in.Name, validation.Required),
		validation.NewField("schedule", in.Schedule, validation.Required, validation.Schedule()),
		validation.NewField("script", in.Script, validation.Required),
		validation.NewField("type", string(in.Type), validation.JobType()),
		validation.NewField("overlapPolicy", string(in.OverlapPolicy), validation.OverlapPolicy()),
	); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	job := &models.Job{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Schedule:        in.Schedule,
		Script:          in.Script,
		Type:            in.Type,
		Description:     in.Description,
		Enabled:         true,
		TimeoutMs:       in.TimeoutMs,
		OverlapPolicy:   in.OverlapPolicy,
		OnFailureChanID: in.OnFailureChanID,
		OnSuccessChanID: in.OnSuccessChanID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := r.store.DB().NamedExecContext(ctx, `
		INSERT INTO jobs (
			id, name, schedule, script, type, description, enabled, timeout_ms,
			overlap_policy, on_failure_channel_id, on_success_channel_id, created_at, updated_at
		) VALUES (
			:id, :name, :schedule, :script, :type, :description, :enabled, :timeout_ms,
			:overlap_policy, :on_failure_channel_id, :on_success_channel_id, :created_at, :updated_at
		)`, job)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create job").WithCode(errors.CodeDatabase)
	}

	r.logger.Info("job created", append(logger.JobFields(job.ID), "name", job.Name)...)
	return job, nil
}

// Get retrieves a job by id regardless of enabled state.
func (r *Repository) Get(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.store.DB().GetContext(ctx, &job, `SELECT * FROM jobs WHERE id = ?`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("job", id)
		}

		return nil, errors.Wrap(err, "failed to get job").WithCode(errors.CodeDatabase)
	}

	return &job, nil
}

// GetEnabled retrieves a job by id, but only if enabled=1; this is the
// re-read the cron registry performs on every fire (spec: defeats stale
// in-memory closures).
func (r *Repository) GetEnabled(ctx context.Context, id string) (*models.Job, error) {
	var job models.Job
	err := r.store.DB().GetContext(ctx, &job,
		`SELECT * FROM jobs WHERE id = ? AND enabled = 1`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("job", id+" (or disabled)")
		}

		return nil, errors.Wrap(err, "failed to get job").WithCode(errors.CodeDatabase)
	}

	return &job, nil
}

// ListEnabled returns every job with enabled=1, ordered by id for
// deterministic reconcile output.
func (r *Repository) ListEnabled(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	err := r.store.DB().SelectContext(ctx, &out,
		`SELECT * FROM jobs WHERE enabled = 1 ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list enabled jobs").WithCode(errors.CodeDatabase)
	}

	return out, nil
}

// List returns every job ordered by id.
func (r *Repository) List(ctx context.Context) ([]models.Job, error) {
	var out []models.Job
	err := r.store.DB().SelectContext(ctx, &out, `SELECT * FROM jobs ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list jobs").WithCode(errors.CodeDatabase)
	}

	return out, nil
}

// SetEnabled toggles a job's enabled flag.
func (r *Repository) SetEnabled(ctx context.Context, id string, enabled bool) error {
	res, err := r.store.DB().ExecContext(ctx,
		`UPDATE jobs SET enabled = ?, updated_at = ? WHERE id = ?`,
		enabled, time.Now().UTC(), id)
	if err != nil {
		return errors.Wrap(err, "failed to update job").WithCode(errors.CodeDatabase)
	}

	return requireRowAffected(res, id)
}

func requireRowAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to read rows affected").WithCode(errors.CodeDatabase)
	}

	if n == 0 {
		return errors.NotFound("job", id)
	}

	return nil
}
