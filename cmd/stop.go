package cmd

import (
	"fmt"
	"os"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/urfave/cli"
)

var killDaemonFunc = killDaemon

func stopDaemon(ctx *cli.Context) error {
	pid, err := ReadPidFile()
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(common.Out, "Daemon is not running (PID file not found)")
			return nil
		}
		common.PrintRuntimeErr(ctx, "stop", "read_pid", err)
		return nil
	}
	if !isProcessRunning(pid) {
		fmt.Fprintf(common.Out, "Daemon is not running (stale PID %d)\n", pid)
		_ = RemovePidFile()
		return nil
	}

	fmt.Fprintf(common.Out, "Stopping daemon (PID %d)...\n", pid)
	if err := killDaemonFunc(pid); err != nil {
		common.PrintRuntimeErr(ctx, "stop", "kill", err)
		return nil
	}
	// The daemon removes its PID file on the way out.
	fmt.Fprintln(common.Out, "Daemon stopped successfully")
	return nil
}
