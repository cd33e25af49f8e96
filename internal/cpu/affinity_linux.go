//go:build linux

package cpu

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore restricts the calling OS thread to core cpuID % NumCPU.
// Must be called after runtime.LockOSThread().
func pinToCore(cpuID int) (int, error) {
	core := cpuID % runtime.NumCPU()

	var mask unix.CPUSet
	mask.Zero()
	mask.Set(core)

	// pid 0 is the calling thread
	if err := unix.SchedSetaffinity(0, &mask); err != nil {
		return 0, err
	}
	return core, nil
}

// SetupWorkerAffinity locks the calling goroutine to an OS thread and pins
// that thread to core workerID % NumCPU. The returned function restores the
// thread's previous affinity mask and unlocks it. Pinning errors are ignored:
// the worker then simply runs unpinned.
func SetupWorkerAffinity(workerID int) func() {
	runtime.LockOSThread()

	var prev unix.CPUSet
	saved := unix.SchedGetaffinity(0, &prev) == nil
	_, _ = pinToCore(workerID)

	return func() {
		if saved {
			_ = unix.SchedSetaffinity(0, &prev)
		}
		runtime.UnlockOSThread()
	}
}
