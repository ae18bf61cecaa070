package core

import "time"

// Common interfaces shared by the threaded and inline schedulers

// Scheduler runs one fixed-partition cycle over an item sequence per Run call.
// ThreadedScheduler and InlineScheduler both implement it.
type Scheduler interface {
	// Run executes one cycle, blocking for workers when the scheduler was
	// configured with ForceSync.
	Run() error
	// RunWith executes one cycle with an explicit sync override.
	RunWith(forceSync bool) error
	// ForceSync waits for the most recent cycle's workers and returns any
	// failures they recorded.
	ForceSync() error
	// Teardown stops all workers. The scheduler is unusable afterwards.
	Teardown() error
}

// ItemSource exposes the ordered item sequence processed each cycle.
// The returned slice must not be mutated while a cycle is in flight; its
// length may change between cycles.
type ItemSource[E any] interface {
	Items() []E
}

// ItemsFunc adapts a plain function to ItemSource
type ItemsFunc[E any] func() []E

// Items calls f
func (f ItemsFunc[E]) Items() []E {
	return f()
}

// StaticItems is an ItemSource over a fixed slice
type StaticItems[E any] []E

// Items returns the slice itself
func (s StaticItems[E]) Items() []E {
	return s
}

// Callback processes one slice of items. It may run on several goroutines at
// once over disjoint ranges.
type Callback[W any, E any] func(job *JobDescriptor[W, E])

// Observer receives per-cycle notifications from a scheduler
type Observer interface {
	CycleCompleted(stats CycleStats)
	WorkerFailed(worker int, err error)
}

// CycleStats summarizes one Run call
type CycleStats struct {
	Cycle         uint64
	Total         int
	ActiveWorkers int
	JobSize       int
	MainItems     int
	Synced        bool
	Failures      int
	Duration      time.Duration
}
