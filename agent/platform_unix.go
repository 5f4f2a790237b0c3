//go:build !windows

package agent

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isProcessAlive reports whether pid refers to a live process. Signal 0
// performs the existence check without delivering anything; EPERM means
// the process exists but belongs to someone else. A PID that never
// existed reports false, never an error.
func isProcessAlive(pid int) bool {
	if pid <= 0 {
		return false
	}
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}

// terminateProcess asks the agent process to exit.
func terminateProcess(pid int) error {
	if pid <= 0 {
		return errors.New("invalid pid")
	}
	return unix.Kill(pid, unix.SIGTERM)
}
