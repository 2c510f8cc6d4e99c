package maintenance

import (
	"context"
	"sync"
	"time"

	"github.com/salgue441/jobrunner/internal/queue"
	"github.com/salgue441/jobrunner/internal/runs"
	"github.com/salgue441/jobrunner/internal/state"
	"github.com/salgue441/jobrunner/pkg/logger"
)

// Controller runs the three retention sweeps on an interval.
type Controller struct {
	runs             *runs.Repository
	state            *state.Engine
	queue            *queue.Engine
	runRetentionDays int
	interval         time.Duration
	logger           logger.Logger

	stop chan struct{}
	wg   sync.WaitGroup
}

// New creates a maintenance Controller. intervalMs <= 0 disables the
// periodic timer; RunNow still works.
func New(runRepo *runs.Repository, stateEngine *state.Engine, queueEngine *queue.Engine,
	runRetentionDays int, intervalMs int64, log logger.Logger) *Controller {
	return &Controller{
		runs:             runRepo,
		state:            stateEngine,
		queue:            queueEngine,
		runRetentionDays: runRetentionDays,
		interval:         time.Duration(intervalMs) * time.Millisecond,
		logger:           log.Named("maintenance"),
	}
}

// Start runs every sweep immediately, then schedules the periodic
// sweep if an interval was configured.
func (c *Controller) Start(ctx context.Context) {
	c.RunNow(ctx)

	if c.interval <= 0 {
		return
	}

	c.stop = make(chan struct{})
	c.wg.Add(1)
	go c.loop()
}

func (c *Controller) loop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.RunNow(context.Background())
		}
	}
}

// Stop halts the periodic timer. In-flight sweeps are not interrupted.
func (c *Controller) Stop() {
	if c.stop != nil {
		close(c.stop)
		c.wg.Wait()
	}
}

// RunNow executes all three sweeps synchronously, logging each
// non-zero delete count. A failed sweep is logged and does not block
// the others (spec: IOError is logged, sweeps continue on the next tick).
func (c *Controller) RunNow(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -c.runRetentionDays)
	if n, err := c.runs.DeleteOlderThan(ctx, cutoff); err != nil {
		c.logger.Error("run retention sweep failed", "error", err)
	} else if n > 0 {
		c.logger.Info("pruned old runs", "count", n)
	}

	if n, err := c.state.PruneExpired(ctx); err != nil {
		c.logger.Error("state expiry sweep failed", "error", err)
	} else if n > 0 {
		c.logger.Info("pruned expired state rows", "count", n)
	}

	if n, err := c.queue.PruneRetention(ctx); err != nil {
		c.logger.Error("queue retention sweep failed", "error", err)
	} else if n > 0 {
		c.logger.Info("pruned queue items past retention", "count", n)
	}
}
