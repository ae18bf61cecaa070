package core

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig is wrapped by every ConfigError
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
	// ErrSchedulerClosed is returned by any call made after Teardown
	ErrSchedulerClosed = errors.New("scheduler has been torn down")
	// ErrNotInitialized is returned when a zero-value scheduler is used
	ErrNotInitialized = errors.New("scheduler is not initialized")
)

// MainWorker is the worker index reported for failures on the calling goroutine
const MainWorker = -1

// ConfigError reports an invalid constructor argument
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// WorkerPanicError is a panic recovered from a callback
type WorkerPanicError struct {
	Worker int
	Value  any
	Stack  []byte
}

func (e *WorkerPanicError) Error() string {
	if e.Worker == MainWorker {
		return fmt.Sprintf("callback panicked on main goroutine: %v", e.Value)
	}
	return fmt.Sprintf("callback panicked on worker %d: %v", e.Worker, e.Value)
}

// Unwrap exposes the panic value when it was itself an error
func (e *WorkerPanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// TeardownTimeoutError reports a worker that did not exit in time.
// The goroutine is abandoned; teardown still completes.
type TeardownTimeoutError struct {
	Worker  int
	Timeout time.Duration
}

func (e *TeardownTimeoutError) Error() string {
	return fmt.Sprintf("worker %d did not stop within %s", e.Worker, e.Timeout)
}
