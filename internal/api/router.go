package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	cronregistry "github.com/salgue441/jobrunner/internal/cron"
	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/runs"
	"github.com/salgue441/jobrunner/internal/scheduler"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Server holds the collaborators the HTTP surface reads from; it owns
// no state of its own beyond the process start time used for uptime.
type Server struct {
	jobs      *jobs.Repository
	runs      *runs.Repository
	scheduler *scheduler.Scheduler
	registry  *cronregistry.Registry
	logger    logger.Logger
	startedAt time.Time

	router chi.Router
}

// New builds a Server and wires its routes.
func New(
	jobRepo *jobs.Repository,
	runRepo *runs.Repository,
	sched *scheduler.Scheduler,
	registry *cronregistry.Registry,
	log logger.Logger,
) *Server {
	s := &Server{
		jobs:      jobRepo,
		runs:      runRepo,
		scheduler: sched,
		registry:  registry,
		logger:    log.Named("api"),
		startedAt: time.Now(),
	}

	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)

	r.Get("/health", s.handleHealth)
	r.Get("/stats", s.handleStats)

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", s.handleListJobs)
		r.Get("/{id}", s.handleGetJob)
		r.Get("/{id}/runs", s.handleListRuns)
		r.Post("/{id}/run", s.handleRunJob)
		r.Post("/{id}/enable", s.handleEnableJob)
		r.Post("/{id}/disable", s.handleDisableJob)
	})

	return r
}

// Handler returns the http.Handler to bind on the configured loopback
// address.
func (s *Server) Handler() http.Handler {
	return s.router
}
