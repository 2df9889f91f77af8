//go:build !windows

package dpcli

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// spawn starts "dayplan daemon" detached from the caller's process group so
// it outlives the CLI.
func spawn() error {
	executable, err := os.Executable()
	if err != nil {
		return fmt.Errorf("failed to get executable path: %w", err)
	}
	cmd := exec.Command(executable, "daemon")
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	_ = cmd.Process.Release()
	return nil
}
