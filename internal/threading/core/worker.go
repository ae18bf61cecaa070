package core

import (
	"log/slog"
	"runtime"
	"runtime/debug"
	"time"
)

// workerHandle owns one persistent worker goroutine.
//
// hasWork and workDone are binary signals (buffered channels of capacity 1).
// workDone holds a token whenever the worker is idle, so it starts signaled.
// The scheduler clears it by taking the token before dispatch and observes
// completion by taking it and putting it back.
type workerHandle[W any, E any] struct {
	index    int
	callback Callback[W, E]
	job      JobDescriptor[W, E]

	hasWork  chan struct{}
	workDone chan struct{}
	quit     chan struct{}
	exited   chan struct{}

	// written by the worker before it signals workDone, read by the
	// scheduler only after observing workDone
	lastErr error

	lockOSThread bool
	logger       *slog.Logger
}

func newWorkerHandle[W any, E any](index int, world W, callback Callback[W, E], opts Options) *workerHandle[W, E] {
	w := &workerHandle[W, E]{
		index:        index,
		callback:     callback,
		job:          JobDescriptor[W, E]{World: world},
		hasWork:      make(chan struct{}, 1),
		workDone:     make(chan struct{}, 1),
		quit:         make(chan struct{}),
		exited:       make(chan struct{}),
		lockOSThread: opts.LockOSThread,
		logger:       opts.logger().With("worker", index),
	}
	w.workDone <- struct{}{}
	return w
}

// start spawns the worker goroutine; it parks until the first dispatch
func (w *workerHandle[W, E]) start() {
	go w.loop()
}

// loop is the worker goroutine body
func (w *workerHandle[W, E]) loop() {
	defer close(w.exited)
	if w.lockOSThread {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		w.logger.Debug("worker started", "tid", currentThreadID())
	} else {
		w.logger.Debug("worker started")
	}

	for {
		select {
		case <-w.quit:
			w.logger.Debug("worker stopped")
			return
		case <-w.hasWork:
			w.execute()
			w.workDone <- struct{}{}
		}
	}
}

// execute runs the callback over the assigned slice, recovering panics
// into the last-error slot so the goroutine stays available
func (w *workerHandle[W, E]) execute() {
	defer func() {
		if r := recover(); r != nil {
			w.lastErr = &WorkerPanicError{Worker: w.index, Value: r, Stack: debug.Stack()}
			w.logger.Warn("callback panicked", "panic", r, "from", w.job.From, "to", w.job.To)
		}
	}()
	w.callback(&w.job)
}

// dispatch hands the worker a new slice. The worker must be idle.
func (w *workerHandle[W, E]) dispatch(items []E, r Range) {
	<-w.workDone
	w.job.assign(items, r)
	w.hasWork <- struct{}{}
}

// await blocks until the worker is idle and returns its drained last error
func (w *workerHandle[W, E]) await() error {
	<-w.workDone
	err := w.lastErr
	w.lastErr = nil
	w.workDone <- struct{}{}
	return err
}

// stop interrupts the worker and waits up to timeout for it to exit
func (w *workerHandle[W, E]) stop(timeout time.Duration) error {
	close(w.quit)

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-w.exited:
		w.job.release()
		w.callback = nil
		return nil
	case <-timer.C:
		return &TeardownTimeoutError{Worker: w.index, Timeout: timeout}
	}
}
