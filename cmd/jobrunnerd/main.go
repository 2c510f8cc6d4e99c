package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/salgue441/jobrunner/internal/api"
	"github.com/salgue441/jobrunner/internal/config"
	cronregistry "github.com/salgue441/jobrunner/internal/cron"
	"github.com/salgue441/jobrunner/internal/executor/script"
	"github.com/salgue441/jobrunner/internal/executor/session"
	"github.com/salgue441/jobrunner/internal/gateway"
	"github.com/salgue441/jobrunner/internal/jobs"
	"github.com/salgue441/jobrunner/internal/maintenance"
	"github.com/salgue441/jobrunner/internal/models"
	"github.com/salgue441/jobrunner/internal/notify"
	"github.com/salgue441/jobrunner/internal/queue"
	"github.com/salgue441/jobrunner/internal/runs"
	"github.com/salgue441/jobrunner/internal/scheduler"
	"github.com/salgue441/jobrunner/internal/state"
	"github.com/salgue441/jobrunner/internal/store"
	"github.com/salgue441/jobrunner/pkg/logger"
)

const gatewayTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", "./config.yaml", "path to the configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      "json",
		OutputPaths: []string{cfg.Log.File},
		ErrorPaths:  []string{"stderr"},
	})
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error("fatal startup error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log logger.Logger) error {
	ctx := context.Background()

	st, err := store.Open(ctx, cfg.DBPath, log)
	if err != nil {
		return err
	}
	defer st.Close()

	stateEngine := state.New(st, log)
	queueEngine := queue.New(st, log)
	jobRepo := jobs.New(st, log)
	runRepo := runs.New(st, log)

	scriptExec := script.New(log)
	sessionExec := session.New(log)
	gatewayClient := gateway.NewHTTPClient(cfg.Gateway.URL, readTokenFile(cfg.Gateway.TokenPath, log), gatewayTimeout)

	notifier := buildNotifier(cfg, log)

	// The registry's OnFire callback must call into the scheduler, but
	// the scheduler's constructor needs the already-built registry; a
	// forward-declared variable closes that loop.
	var sched *scheduler.Scheduler
	registry := cronregistry.New(jobRepo, func(ctx context.Context, job models.Job) {
		sched.OnScheduledRun(ctx, job)
	}, log)

	sched = scheduler.New(
		scheduler.Config{
			DBPath:                cfg.DBPath,
			MaxConcurrency:        cfg.MaxConcurrency,
			ShutdownGraceMs:       int64(cfg.ShutdownGraceMs),
			ReconcileIntervalMs:   int64(cfg.ReconcileIntervalMs),
			DefaultFailureChannel: cfg.Notifications.DefaultOnFailure,
		},
		jobRepo, runRepo, registry,
		scriptExec, sessionExec, gatewayClient, notifier, log,
	)

	if err := sched.Start(ctx); err != nil {
		return err
	}

	maint := maintenance.New(runRepo, stateEngine, queueEngine, cfg.RunRetentionDays, int64(cfg.StateCleanupIntervalMs), log)
	maint.Start(ctx)

	server := api.New(jobRepo, runRepo, sched, registry, log)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf("127.0.0.1:%d", cfg.Port),
		Handler: server.Handler(),
	}

	go func() {
		log.Info("listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server stopped unexpectedly", "error", err)
		}
	}()

	waitForShutdownSignal()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownGraceMs)*time.Millisecond)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Warn("http server shutdown did not complete cleanly", "error", err)
	}

	maint.Stop()
	sched.Stop()

	return nil
}

func waitForShutdownSignal() {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
}

func buildNotifier(cfg *config.Config, log logger.Logger) notify.Notifier {
	if cfg.Notifications.SlackTokenPath == "" {
		return notify.Noop{}
	}

	return notify.NewSlack(cfg.Notifications.SlackTokenPath, log)
}

func readTokenFile(path string, log logger.Logger) string {
	if path == "" {
		return ""
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("gateway token unreadable, continuing unauthenticated", "path", path, "error", err)
		return ""
	}

	return strings.TrimSpace(string(data))
}
