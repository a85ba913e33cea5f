package controller

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"zephyr-hq/zephyr/pkg/config"
	"zephyr-hq/zephyr/pkg/history"
	"zephyr-hq/zephyr/pkg/rules/engine"
)

// Controller evaluates the sensor snapshot on a cron schedule and records
// the decisions it makes.
type Controller struct {
	engine  *engine.Engine
	sensors SensorSource
	store   *history.Store
	config  *config.Config
	cron    *cron.Cron
	logger  *slog.Logger

	mu      sync.Mutex
	running bool
}

// New creates a controller. The history store may be nil, in which case
// decisions are made but not recorded and retention pruning is skipped.
func New(eng *engine.Engine, sensors SensorSource, store *history.Store, cfg *config.Config, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		engine:  eng,
		sensors: sensors,
		store:   store,
		config:  cfg,
		cron:    cron.New(),
		logger:  logger.With(slog.String("component", "controller")),
	}
}

// Start begins scheduled evaluation and retention pruning. It returns an
// error when a configured cron expression does not parse. The controller
// stops itself when ctx is cancelled.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		return nil
	}

	schedule := c.config.Controller.Schedule
	if _, err := cron.ParseStandard(schedule); err != nil {
		return fmt.Errorf("invalid controller schedule %q: %w", schedule, err)
	}
	if _, err := c.cron.AddFunc(schedule, func() {
		if _, err := c.RunOnce(ctx); err != nil {
			c.logger.Error("scheduled evaluation failed", "error", err)
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule evaluation: %w", err)
	}

	if c.store != nil && c.config.History.RetentionDays > 0 {
		pruneSchedule := c.config.History.PruneSchedule
		if _, err := cron.ParseStandard(pruneSchedule); err != nil {
			return fmt.Errorf("invalid prune schedule %q: %w", pruneSchedule, err)
		}
		if _, err := c.cron.AddFunc(pruneSchedule, func() {
			c.runPruning(ctx)
		}); err != nil {
			return fmt.Errorf("failed to schedule pruning: %w", err)
		}
	}

	c.cron.Start()
	c.running = true

	c.logger.Info("controller started",
		"schedule", schedule,
		"retention_days", c.config.History.RetentionDays,
	)

	go func() {
		<-ctx.Done()
		c.Stop()
	}()

	return nil
}

// RunOnce reads the sensor snapshot, evaluates it, and records the decision
// when a history store is configured. It returns the decision so callers
// can act on it directly.
func (c *Controller) RunOnce(ctx context.Context) (*engine.Decision, error) {
	facts, err := c.sensors.Facts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read sensors: %w", err)
	}

	decision := c.engine.Evaluate(ctx, facts)

	c.logger.Info("evaluation completed",
		"evaluation_id", decision.EvaluationID,
		"mode", decision.Action.Mode,
		"fan_speed", decision.Action.FanSpeed,
		"fallback", decision.Fallback,
	)

	if c.store != nil {
		if err := c.store.Record(ctx, decision, facts); err != nil {
			c.logger.Error("failed to record decision",
				"evaluation_id", decision.EvaluationID,
				"error", err,
			)
		}
	}

	return decision, nil
}

// runPruning deletes decisions older than the retention window.
func (c *Controller) runPruning(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -c.config.History.RetentionDays)

	deleted, err := c.store.Prune(ctx, cutoff)
	if err != nil {
		c.logger.Error("scheduled pruning failed", "error", err)
		return
	}
	if deleted > 0 {
		c.logger.Info("scheduled pruning completed", "deleted", deleted)
	}
}

// Stop stops the schedules and waits for running jobs to complete.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.running {
		return
	}

	stopCtx := c.cron.Stop()
	<-stopCtx.Done()
	c.running = false
	c.logger.Info("controller stopped")
}

// IsRunning reports whether the controller schedules are active.
func (c *Controller) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
