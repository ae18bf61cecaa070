//go:build !js && !wasip1 && !entityjobs_inline

package core

// ThreadsSupported reports whether this build can run persistent workers
func ThreadsSupported() bool {
	return true
}
