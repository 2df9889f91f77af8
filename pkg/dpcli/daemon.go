package dpcli

import (
	"context"
	"fmt"
	"os"
	"time"
)

const (
	daemonStartTimeout = 3 * time.Second
	socketPollInterval = 50 * time.Millisecond
	socketDialTimeout  = 300 * time.Millisecond
)

var (
	spawnDaemon     = spawn
	isDaemonRunning = func(opts *Options) bool { return Ping(context.Background(), opts) }
)

// EnsureDaemon starts a background daemon unless one already answers.
func EnsureDaemon(opts *Options) error {
	if isDaemonRunning(opts) {
		return nil
	}
	if err := spawnDaemon(); err != nil {
		return err
	}
	return waitForDaemon(opts, daemonStartTimeout)
}

func waitForDaemon(opts *Options, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if isDaemonRunning(opts) {
			return nil
		}
		time.Sleep(socketPollInterval)
	}
	return fmt.Errorf("daemon failed to start within %v", timeout)
}

// VersionCheckEnv suppresses version mismatch warnings when set.
const VersionCheckEnv = "DAYPLAN_SUPPRESS_VERSION_CHECK"

// CheckVersionMismatch warns on stderr when the daemon runs a different
// build than the CLI. It never fails.
func (c *Client) CheckVersionMismatch(ctx context.Context, expected string) {
	if expected == "" || os.Getenv(VersionCheckEnv) != "" {
		return
	}
	v, err := c.Version(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not verify daemon version: %v\n", err)
		return
	}
	if v.Version != expected {
		fmt.Fprintf(os.Stderr, "Warning: CLI version (%s) differs from daemon version (%s)\n", expected, v.Version)
		fmt.Fprintf(os.Stderr, "Run 'dayplan stop' to restart the daemon with the new version.\n")
	}
}
