//go:build !windows

package cmd

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

const (
	stopTimeout  = 5 * time.Second
	pollInterval = 100 * time.Millisecond
)

// killDaemon sends SIGTERM and waits for the process to exit, escalating
// to SIGKILL after stopTimeout.
func killDaemon(pid int) error {
	if err := unix.Kill(pid, unix.SIGTERM); err != nil {
		return fmt.Errorf("failed to send SIGTERM: %w", err)
	}
	deadline := time.Now().Add(stopTimeout)
	for time.Now().Before(deadline) {
		if unix.Kill(pid, 0) != nil {
			return nil
		}
		time.Sleep(pollInterval)
	}
	fmt.Println("Graceful shutdown timeout, forcing kill...")
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		return fmt.Errorf("failed to send SIGKILL: %w", err)
	}
	time.Sleep(500 * time.Millisecond)
	return nil
}
