//go:build !linux

package core

// currentThreadID is not available off linux
func currentThreadID() int {
	return 0
}
