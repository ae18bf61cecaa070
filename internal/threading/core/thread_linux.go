//go:build linux

package core

import "golang.org/x/sys/unix"

// currentThreadID returns the OS thread id of the calling goroutine's thread.
// It is only stable when the goroutine is locked to its thread.
func currentThreadID() int {
	return unix.Gettid()
}
