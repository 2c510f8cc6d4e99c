package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/pkg/errors"
)

const defaultRunsLimit = 50

// jobRow is a Job enriched with its most recent run, per spec.md's
// `jobRow with last_status, last_run` shape for GET /jobs.
type jobRow struct {
	models.Job
	LastStatus *models.RunStatus `json:"lastStatus,omitempty"`
	LastRun    *time.Time        `json:"lastRun,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	failed := s.registry.FailedRegistrations()

	body := map[string]any{
		"ok":     true,
		"uptime": time.Since(s.startedAt).Seconds(),
	}
	if len(failed) > 0 {
		body["failedRegistrations"] = failed
	}

	writeJSON(w, s.logger, http.StatusOK, body)
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobList, err := s.jobs.List(ctx)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	lastByJob, err := s.runs.LastByJob(ctx)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	rows := make([]jobRow, len(jobList))
	for i, job := range jobList {
		row := jobRow{Job: job}
		if last, ok := lastByJob[job.ID]; ok {
			status := last.Status
			started := last.StartedAt
			row.LastStatus = &status
			row.LastRun = &started
		}

		rows[i] = row
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{"jobs": rows})
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	job, err := s.jobs.Get(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{"job": job})
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if _, err := s.jobs.Get(ctx, id); err != nil {
		writeError(w, s.logger, err)
		return
	}

	limit := defaultRunsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	runList, err := s.runs.Recent(ctx, id, limit)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{"runs": runList})
}

func (s *Server) handleRunJob(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, err := s.scheduler.TriggerJob(r.Context(), id)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{"result": result})
}

func (s *Server) handleEnableJob(w http.ResponseWriter, r *http.Request) {
	s.setEnabled(w, r, true)
}

func (s *Server) handleDisableJob(w http.ResponseWriter, r *http.Request) {
	s.setEnabled(w, r, false)
}

func (s *Server) setEnabled(w http.ResponseWriter, r *http.Request, enabled bool) {
	id := chi.URLParam(r, "id")
	ctx := r.Context()

	if err := s.jobs.SetEnabled(ctx, id, enabled); err != nil {
		writeError(w, s.logger, err)
		return
	}

	if _, err := s.scheduler.ReconcileNow(ctx); err != nil {
		writeError(w, s.logger, errors.Wrap(err, "enabled flag saved but reconcile failed"))
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	jobList, err := s.jobs.List(ctx)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	since := time.Now().Add(-time.Hour)

	okCount, err := s.runs.CountByStatusSince(ctx, models.RunStatusOK, since)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	errCount, err := s.runs.CountByStatusSince(ctx, models.RunStatusError, since)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	writeJSON(w, s.logger, http.StatusOK, map[string]any{
		"totalJobs":           len(jobList),
		"running":             s.scheduler.RunningCount(),
		"failedRegistrations": len(s.registry.FailedRegistrations()),
		"okLastHour":          okCount,
		"errorsLastHour":      errCount,
	})
}
