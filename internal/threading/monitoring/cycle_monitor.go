package monitoring

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"entityjobs/internal/threading/core"

	"github.com/eapache/queue"
)

// CycleMonitor tracks scheduler cycle and frame metrics.
// It implements core.Observer.
type CycleMonitor struct {
	// Frame metrics
	frameCount atomic.Uint64
	frameTime  atomic.Uint64 // nanoseconds

	// Cycle metrics
	cycleCount     atomic.Uint64
	syncedCycles   atomic.Uint64
	lastCycleTime  atomic.Uint64 // nanoseconds
	itemsProcessed atomic.Uint64
	lastTotal      atomic.Int64
	lastMainItems  atomic.Int64
	activeWorkers  atomic.Int32
	lastJobSize    atomic.Int64

	// Failure metrics
	workerFailures atomic.Uint64
	mainFailures   atomic.Uint64

	// Statistics
	mutex           sync.RWMutex
	window          *queue.Queue // recent cycle durations, oldest first
	windowSize      int
	windowTotal     time.Duration
	peakCycleTime   time.Duration
	lastFailure     error
	lastFailureFrom int
	startTime       time.Time

	// Configuration
	slowCycle time.Duration
}

var _ core.Observer = (*CycleMonitor)(nil)

// NewCycleMonitor creates a monitor averaging over the last windowSize cycles.
// slowCycle is the average cycle time above which CheckPerformanceAlerts warns.
func NewCycleMonitor(windowSize int, slowCycle time.Duration) *CycleMonitor {
	if windowSize < 1 {
		windowSize = 1
	}
	return &CycleMonitor{
		window:     queue.New(),
		windowSize: windowSize,
		slowCycle:  slowCycle,
		startTime:  time.Now(),
	}
}

// CycleCompleted records one scheduler cycle
func (cm *CycleMonitor) CycleCompleted(stats core.CycleStats) {
	cm.cycleCount.Add(1)
	if stats.Synced {
		cm.syncedCycles.Add(1)
	}
	cm.lastCycleTime.Store(uint64(stats.Duration.Nanoseconds()))
	cm.itemsProcessed.Add(uint64(stats.Total))
	cm.lastTotal.Store(int64(stats.Total))
	cm.lastMainItems.Store(int64(stats.MainItems))
	cm.activeWorkers.Store(int32(stats.ActiveWorkers))
	cm.lastJobSize.Store(int64(stats.JobSize))

	cm.mutex.Lock()
	cm.window.Add(stats.Duration)
	cm.windowTotal += stats.Duration
	for cm.window.Length() > cm.windowSize {
		cm.windowTotal -= cm.window.Remove().(time.Duration)
	}
	if stats.Duration > cm.peakCycleTime {
		cm.peakCycleTime = stats.Duration
	}
	cm.mutex.Unlock()
}

// WorkerFailed records a failure drained from a worker or the main goroutine
func (cm *CycleMonitor) WorkerFailed(worker int, err error) {
	if worker == core.MainWorker {
		cm.mainFailures.Add(1)
	} else {
		cm.workerFailures.Add(1)
	}

	cm.mutex.Lock()
	cm.lastFailure = err
	cm.lastFailureFrom = worker
	cm.mutex.Unlock()
}

// FrameTimer helps measure host frame timing
type FrameTimer struct {
	monitor   *CycleMonitor
	startTime time.Time
}

// StartFrame begins frame timing
func (cm *CycleMonitor) StartFrame() *FrameTimer {
	return &FrameTimer{
		monitor:   cm,
		startTime: time.Now(),
	}
}

// EndFrame completes frame timing
func (ft *FrameTimer) EndFrame() {
	ft.monitor.frameTime.Store(uint64(time.Since(ft.startTime).Nanoseconds()))
	ft.monitor.frameCount.Add(1)
}

// AverageCycleTime returns the mean duration over the rolling window
func (cm *CycleMonitor) AverageCycleTime() time.Duration {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return cm.averageLocked()
}

func (cm *CycleMonitor) averageLocked() time.Duration {
	n := cm.window.Length()
	if n == 0 {
		return 0
	}
	return cm.windowTotal / time.Duration(n)
}

// CycleMetrics is a snapshot of the most recent cycle plus totals
type CycleMetrics struct {
	Cycles           uint64
	ItemsProcessed   uint64
	LastTotal        int
	LastMainItems    int
	ActiveWorkers    int
	JobSize          int
	LastCycleTime    time.Duration
	AverageCycleTime time.Duration
	WorkerFailures   uint64
	MainFailures     uint64
	FramesPerSecond  float64
}

// GetCurrentMetrics returns current cycle metrics
func (cm *CycleMonitor) GetCurrentMetrics() CycleMetrics {
	fps := 0.0
	if frameTime := cm.frameTime.Load(); frameTime > 0 {
		fps = float64(time.Second) / float64(frameTime)
	}

	return CycleMetrics{
		Cycles:           cm.cycleCount.Load(),
		ItemsProcessed:   cm.itemsProcessed.Load(),
		LastTotal:        int(cm.lastTotal.Load()),
		LastMainItems:    int(cm.lastMainItems.Load()),
		ActiveWorkers:    int(cm.activeWorkers.Load()),
		JobSize:          int(cm.lastJobSize.Load()),
		LastCycleTime:    time.Duration(cm.lastCycleTime.Load()),
		AverageCycleTime: cm.AverageCycleTime(),
		WorkerFailures:   cm.workerFailures.Load(),
		MainFailures:     cm.mainFailures.Load(),
		FramesPerSecond:  fps,
	}
}

// GetDetailedStats returns detailed performance statistics
func (cm *CycleMonitor) GetDetailedStats() map[string]interface{} {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()

	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	stats := map[string]interface{}{
		"uptime_seconds":         time.Since(cm.startTime).Seconds(),
		"frame_count":            cm.frameCount.Load(),
		"last_frame_time_ms":     float64(cm.frameTime.Load()) / 1e6,
		"cycle_count":            cm.cycleCount.Load(),
		"synced_cycles":          cm.syncedCycles.Load(),
		"items_processed":        cm.itemsProcessed.Load(),
		"last_cycle_items":       cm.lastTotal.Load(),
		"last_main_items":        cm.lastMainItems.Load(),
		"active_workers":         cm.activeWorkers.Load(),
		"job_size":               cm.lastJobSize.Load(),
		"last_cycle_time_ms":     float64(cm.lastCycleTime.Load()) / 1e6,
		"avg_cycle_time_ms":      float64(cm.averageLocked()) / 1e6,
		"peak_cycle_time_ms":     float64(cm.peakCycleTime) / 1e6,
		"window_cycles":          cm.window.Length(),
		"worker_failures":        cm.workerFailures.Load(),
		"main_failures":          cm.mainFailures.Load(),
		"memory_alloc_mb":        memStats.Alloc / 1024 / 1024,
		"gc_cycles":              memStats.NumGC,
		"cpu_cores":              runtime.NumCPU(),
		"goroutines":             runtime.NumGoroutine(),
		"last_failure_worker":    cm.lastFailureFrom,
		"last_failure_available": cm.lastFailure != nil,
	}
	if cm.lastFailure != nil {
		stats["last_failure"] = cm.lastFailure.Error()
	}
	return stats
}

// PerformanceAlert represents a performance warning
type PerformanceAlert struct {
	Type      string
	Message   string
	Value     float64
	Threshold float64
	Timestamp time.Time
}

// CheckPerformanceAlerts checks for scheduling problems and returns alerts
func (cm *CycleMonitor) CheckPerformanceAlerts() []PerformanceAlert {
	alerts := make([]PerformanceAlert, 0)
	currentTime := time.Now()

	// Average cycle time over the window
	if avg := cm.AverageCycleTime(); cm.slowCycle > 0 && avg > cm.slowCycle {
		alerts = append(alerts, PerformanceAlert{
			Type:      "slow_cycle",
			Message:   "Average cycle time is above the configured threshold",
			Value:     float64(avg) / 1e6,
			Threshold: float64(cm.slowCycle) / 1e6,
			Timestamp: currentTime,
		})
	}

	// Callback failures
	failures := cm.workerFailures.Load() + cm.mainFailures.Load()
	if failures > 0 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "callback_failures",
			Message:   "Callbacks have panicked during scheduler cycles",
			Value:     float64(failures),
			Threshold: 0,
			Timestamp: currentTime,
		})
	}

	// Last cycle never left the main goroutine
	if cm.lastTotal.Load() > 0 && cm.activeWorkers.Load() == 0 {
		alerts = append(alerts, PerformanceAlert{
			Type:      "serial_cycle",
			Message:   "Last cycle ran entirely on the main goroutine",
			Value:     float64(cm.lastTotal.Load()),
			Threshold: 0,
			Timestamp: currentTime,
		})
	}

	return alerts
}

// Reset resets all counters and the rolling window
func (cm *CycleMonitor) Reset() {
	cm.frameCount.Store(0)
	cm.frameTime.Store(0)
	cm.cycleCount.Store(0)
	cm.syncedCycles.Store(0)
	cm.lastCycleTime.Store(0)
	cm.itemsProcessed.Store(0)
	cm.lastTotal.Store(0)
	cm.lastMainItems.Store(0)
	cm.activeWorkers.Store(0)
	cm.lastJobSize.Store(0)
	cm.workerFailures.Store(0)
	cm.mainFailures.Store(0)

	cm.mutex.Lock()
	cm.window = queue.New()
	cm.windowTotal = 0
	cm.peakCycleTime = 0
	cm.lastFailure = nil
	cm.lastFailureFrom = 0
	cm.startTime = time.Now()
	cm.mutex.Unlock()
}
