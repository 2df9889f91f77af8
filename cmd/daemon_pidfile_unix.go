//go:build !windows

package cmd

import (
	"errors"

	"golang.org/x/sys/unix"
)

// isProcessRunning probes pid with signal 0. EPERM means the process exists
// but belongs to someone else.
func isProcessRunning(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
