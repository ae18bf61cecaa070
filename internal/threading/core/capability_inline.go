//go:build js || wasip1 || entityjobs_inline

package core

// ThreadsSupported reports whether this build can run persistent workers.
// Single-threaded targets and the entityjobs_inline tag fall back to inline
// execution.
func ThreadsSupported() bool {
	return false
}
