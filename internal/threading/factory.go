package threading

import (
	"errors"
	"log/slog"

	"entityjobs/internal/config"
	"entityjobs/internal/threading/core"
	"entityjobs/internal/threading/entities"
	"entityjobs/internal/threading/monitoring"

	"github.com/google/uuid"
)

// ThreadingComponents holds all threading-related components
type ThreadingComponents struct {
	RunID         uuid.UUID
	EntityUpdater *entities.EntityUpdater
	CycleMonitor  *monitoring.CycleMonitor
	Logger        *slog.Logger
}

// SchedulerOptions translates the scheduler section of cfg into core.Options
func SchedulerOptions(cfg *config.Config, logger *slog.Logger, observer core.Observer) core.Options {
	return core.Options{
		MinJobSize:   cfg.Scheduler.MinimumJobSize,
		ThreadCount:  cfg.GetThreadCount(),
		ForceSync:    cfg.Scheduler.ForceSync,
		JoinTimeout:  cfg.Scheduler.JoinTimeout,
		LockOSThread: cfg.Scheduler.LockOSThread,
		Inline:       cfg.Scheduler.Inline,
		Logger:       logger,
		Observer:     observer,
	}
}

// NewThreadingComponents creates the monitor and entity updater for world.
// Every log line carries a run_id so concurrent runs can be told apart.
func NewThreadingComponents(cfg *config.Config, world *entities.World, logger *slog.Logger) (*ThreadingComponents, error) {
	if logger == nil {
		logger = slog.Default()
	}
	runID := uuid.New()
	logger = logger.With("run_id", runID.String())

	monitor := monitoring.NewCycleMonitor(cfg.Monitoring.Window, cfg.Monitoring.SlowCycle)
	updater, err := entities.NewEntityUpdater(world, SchedulerOptions(cfg, logger, monitor))
	if err != nil {
		return nil, err
	}

	logger.Info("threading components ready",
		"threads", cfg.GetThreadCount(),
		"min_job_size", cfg.Scheduler.MinimumJobSize,
		"force_sync", cfg.Scheduler.ForceSync,
		"inline", cfg.Scheduler.Inline || !core.ThreadsSupported())

	return &ThreadingComponents{
		RunID:         runID,
		EntityUpdater: updater,
		CycleMonitor:  monitor,
		Logger:        logger,
	}, nil
}

// Shutdown gracefully shuts down all threading components
func (tc *ThreadingComponents) Shutdown() error {
	var err error
	if tc.EntityUpdater != nil {
		err = tc.EntityUpdater.Stop()
		var timeout *core.TeardownTimeoutError
		if errors.As(err, &timeout) {
			tc.Logger.Warn("workers abandoned during shutdown", "error", err)
		}
	}
	if tc.CycleMonitor != nil {
		tc.Logger.Info("threading components stopped",
			"cycles", tc.CycleMonitor.GetCurrentMetrics().Cycles,
			"avg_cycle", tc.CycleMonitor.AverageCycleTime())
		tc.CycleMonitor.Reset()
	}
	return err
}

// GetPerformanceMetrics returns current cycle metrics
func (tc *ThreadingComponents) GetPerformanceMetrics() monitoring.CycleMetrics {
	return tc.CycleMonitor.GetCurrentMetrics()
}

// GetDetailedPerformanceStats returns detailed performance statistics
func (tc *ThreadingComponents) GetDetailedPerformanceStats() map[string]interface{} {
	return tc.CycleMonitor.GetDetailedStats()
}

// CheckPerformanceAlerts returns any performance warnings
func (tc *ThreadingComponents) CheckPerformanceAlerts() []monitoring.PerformanceAlert {
	return tc.CycleMonitor.CheckPerformanceAlerts()
}
