package core

import (
	"log/slog"
	"runtime/debug"
	"sync"
	"time"
)

// InlineScheduler runs every cycle synchronously on the calling goroutine.
// It honours the same contract as ThreadedScheduler without any workers.
type InlineScheduler[W any, E any] struct {
	mu    sync.Mutex
	state schedulerState

	items    ItemSource[E]
	callback Callback[W, E]
	job      JobDescriptor[W, E]
	opts     Options

	cycle  uint64
	logger *slog.Logger
}

// NewInlineScheduler validates the configuration exactly like
// NewThreadedScheduler. ThreadCount is checked but unused.
func NewInlineScheduler[W any, E any](world W, items ItemSource[E], callback Callback[W, E], opts Options) (*InlineScheduler[W, E], error) {
	if err := validateConfig(world, items, callback, opts); err != nil {
		return nil, err
	}
	s := &InlineScheduler[W, E]{
		state:    stateReady,
		items:    items,
		callback: callback,
		job:      JobDescriptor[W, E]{World: world},
		opts:     opts,
		logger:   opts.logger(),
	}
	s.logger.Debug("inline scheduler initialized")
	return s, nil
}

// Run processes the whole item sequence on the calling goroutine
func (s *InlineScheduler[W, E]) Run() error {
	return s.RunWith(s.opts.ForceSync)
}

// RunWith is Run; there is nothing to sync with
func (s *InlineScheduler[W, E]) RunWith(forceSync bool) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateDestroyed:
		return ErrSchedulerClosed
	}

	start := time.Now()
	s.cycle++
	items := s.items.Items()
	s.job.assign(items, Range{From: 0, To: len(items)})

	defer func() {
		if r := recover(); r != nil {
			err = &WorkerPanicError{Worker: MainWorker, Value: r, Stack: debug.Stack()}
			s.logger.Warn("callback panicked", "panic", r)
			if s.opts.Observer != nil {
				s.opts.Observer.WorkerFailed(MainWorker, err)
			}
		}
		if s.opts.Observer != nil {
			failures := 0
			if err != nil {
				failures = 1
			}
			s.opts.Observer.CycleCompleted(CycleStats{
				Cycle:     s.cycle,
				Total:     len(items),
				MainItems: len(items),
				Synced:    forceSync,
				Failures:  failures,
				Duration:  time.Since(start),
			})
		}
	}()

	if len(items) > 0 {
		s.callback(&s.job)
	}
	return nil
}

// ForceSync has nothing to wait for
func (s *InlineScheduler[W, E]) ForceSync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case stateUninitialized:
		return ErrNotInitialized
	case stateDestroyed:
		return ErrSchedulerClosed
	}
	return nil
}

// Teardown releases the world, items and callback
func (s *InlineScheduler[W, E]) Teardown() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateReady {
		return nil
	}
	s.items = nil
	s.callback = nil
	s.job.release()
	s.state = stateDestroyed
	return nil
}
