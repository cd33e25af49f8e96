//go:build !linux

package cpu

import "runtime"

// SetupWorkerAffinity locks the goroutine to an OS thread.
// Core pinning is only implemented on Linux.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()

	return func() {
		runtime.UnlockOSThread()
	}
}
