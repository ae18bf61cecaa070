package core

import (
	"log/slog"
	"reflect"
	"runtime"
	"time"
)

// DefaultJoinTimeout bounds how long Teardown waits for each worker
const DefaultJoinTimeout = 50 * time.Millisecond

// Options configures a scheduler
type Options struct {
	MinJobSize  int  // smallest slice worth handing to a worker, >= 1
	ThreadCount int  // persistent workers besides the caller, >= 1
	ForceSync   bool // Run blocks until all workers finish

	JoinTimeout  time.Duration // per-worker teardown wait, 0 means DefaultJoinTimeout
	LockOSThread bool          // pin each worker goroutine to its own OS thread
	Inline       bool          // New returns an InlineScheduler even when threads are available

	Logger   *slog.Logger
	Observer Observer
}

// DefaultOptions returns options using one worker per spare CPU and
// synchronous cycles
func DefaultOptions() Options {
	return Options{
		MinJobSize:  1,
		ThreadCount: DefaultThreadCount(),
		ForceSync:   true,
		JoinTimeout: DefaultJoinTimeout,
	}
}

// DefaultThreadCount leaves one CPU for the calling goroutine
func DefaultThreadCount() int {
	return max(1, runtime.NumCPU()-1)
}

func (o Options) joinTimeout() time.Duration {
	if o.JoinTimeout <= 0 {
		return DefaultJoinTimeout
	}
	return o.JoinTimeout
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

// validateConfig checks the constructor arguments shared by both schedulers
func validateConfig(world any, items any, callback any, opts Options) error {
	switch {
	case isNil(world):
		return &ConfigError{Field: "world", Reason: "is nil"}
	case isNil(items):
		return &ConfigError{Field: "items", Reason: "is nil"}
	case isNil(callback):
		return &ConfigError{Field: "callback", Reason: "is nil"}
	case opts.MinJobSize < 1:
		return &ConfigError{Field: "MinJobSize", Reason: "must be at least 1"}
	case opts.ThreadCount < 1:
		return &ConfigError{Field: "ThreadCount", Reason: "must be at least 1"}
	}
	return nil
}

// isNil catches both untyped nil and typed nil pointers, maps, funcs, ...
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return rv.IsNil()
	}
	return false
}
