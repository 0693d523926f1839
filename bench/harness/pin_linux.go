//go:build linux

package harness

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// pinToCore 将当前 OS 线程绑定到 core，调用前 goroutine 须已 LockOSThread
func pinToCore(core int) error {
	var set unix.CPUSet
	set.Zero()
	set.Set(core % runtime.NumCPU())
	return unix.SchedSetaffinity(0, &set)
}
