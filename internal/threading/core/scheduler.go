package core

import (
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

type schedulerState int

const (
	stateUninitialized schedulerState = iota
	stateReady
	stateRunning
	stateDestroyed
)

// ThreadedScheduler partitions each cycle across a fixed pool of persistent
// worker goroutines and the calling goroutine.
//
// The zero value is uninitialized; use NewThreadedScheduler. Run, ForceSync and
// Teardown are serialized, and a callback must not call back into the
// scheduler that runs it.
type ThreadedScheduler[W any, E any] struct {
	mu    sync.Mutex
	state schedulerState

	world    W
	items    ItemSource[E]
	callback Callback[W, E]
	opts     Options

	workers []*workerHandle[W, E]
	main    JobDescriptor[W, E]

	cycle  uint64
	logger *slog.Logger
}

// NewThreadedScheduler validates the configuration and starts
// opts.ThreadCount parked workers.
func NewThreadedScheduler[W any, E any](world W, items ItemSource[E], callback Callback[W, E], opts Options) (*ThreadedScheduler[W, E], error) {
	if err := validateConfig(world, items, callback, opts); err != nil {
		return nil, err
	}

	s := &ThreadedScheduler[W, E]{
		state:    stateReady,
		world:    world,
		items:    items,
		callback: callback,
		opts:     opts,
		workers:  make([]*workerHandle[W, E], opts.ThreadCount),
		main:     JobDescriptor[W, E]{World: world},
		logger:   opts.logger(),
	}
	for i := range s.workers {
		s.workers[i] = newWorkerHandle(i, world, callback, opts)
		s.workers[i].start()
	}

	s.logger.Debug("scheduler initialized",
		"threads", opts.ThreadCount,
		"min_job_size", opts.MinJobSize,
		"force_sync", opts.ForceSync)
	return s, nil
}

// Run executes one cycle using the configured ForceSync setting
func (s *ThreadedScheduler[W, E]) Run() error {
	return s.RunWith(s.opts.ForceSync)
}

// RunWith executes one cycle. Workers still busy from an unsynced previous
// cycle are waited for first, and their failures are returned together with
// this cycle's. With forceSync the call returns only after every dispatched
// worker is done; otherwise worker failures surface on the next Run or
// ForceSync.
func (s *ThreadedScheduler[W, E]) RunWith(forceSync bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}

	start := time.Now()
	s.state = stateRunning
	s.cycle++

	errs := s.syncLocked()

	items := s.items.Items()
	part := ComputePartition(len(items), len(s.workers), s.opts.MinJobSize)

	for i := 0; i < part.ActiveWorkers; i++ {
		s.workers[i].dispatch(items, part.Worker(i))
	}

	s.main.assign(items, part.Main())
	if mainErr := s.runMain(); mainErr != nil {
		errs = append(errs, mainErr)
	}

	if forceSync {
		errs = append(errs, s.syncLocked()...)
	}

	s.state = stateReady
	if s.opts.Observer != nil {
		s.opts.Observer.CycleCompleted(CycleStats{
			Cycle:         s.cycle,
			Total:         part.Total,
			ActiveWorkers: part.ActiveWorkers,
			JobSize:       part.JobSize,
			MainItems:     part.Main().Len(),
			Synced:        forceSync,
			Failures:      len(errs),
			Duration:      time.Since(start),
		})
	}
	return errors.Join(errs...)
}

// ForceSync blocks until every worker dispatched by the most recent cycle has
// finished. It returns immediately when nothing is outstanding.
func (s *ThreadedScheduler[W, E]) ForceSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.usable(); err != nil {
		return err
	}
	return errors.Join(s.syncLocked()...)
}

// Teardown interrupts every worker and waits a bounded time for each to exit.
// Workers stuck in a callback are abandoned and reported as
// TeardownTimeoutError; the scheduler is destroyed either way.
func (s *ThreadedScheduler[W, E]) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateDestroyed || s.state == stateUninitialized {
		return nil
	}

	timeout := s.opts.joinTimeout()
	var errs []error
	for _, w := range s.workers {
		if err := w.stop(timeout); err != nil {
			s.logger.Warn("abandoning worker", "worker", w.index, "timeout", timeout)
			errs = append(errs, err)
		}
	}

	var zero W
	s.world = zero
	s.items = nil
	s.callback = nil
	s.workers = nil
	s.main.release()
	s.state = stateDestroyed

	s.logger.Debug("scheduler torn down", "cycles", s.cycle, "abandoned", len(errs))
	return errors.Join(errs...)
}

// NumWorkers returns the size of the worker pool
func (s *ThreadedScheduler[W, E]) NumWorkers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.workers)
}

func (s *ThreadedScheduler[W, E]) usable() error {
	switch s.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateDestroyed:
		return ErrSchedulerClosed
	}
	return nil
}

// syncLocked waits for all workers and collects their drained failures
func (s *ThreadedScheduler[W, E]) syncLocked() []error {
	var errs []error
	for _, w := range s.workers {
		if err := w.await(); err != nil {
			errs = append(errs, err)
			if s.opts.Observer != nil {
				s.opts.Observer.WorkerFailed(w.index, err)
			}
		}
	}
	return errs
}

// runMain processes the calling goroutine's tail slice
func (s *ThreadedScheduler[W, E]) runMain() (err error) {
	if s.main.Len() == 0 {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = &WorkerPanicError{Worker: MainWorker, Value: r, Stack: debug.Stack()}
			s.logger.Warn("callback panicked on main goroutine", "panic", r)
			if s.opts.Observer != nil {
				s.opts.Observer.WorkerFailed(MainWorker, err)
			}
		}
	}()
	s.callback(&s.main)
	return nil
}
