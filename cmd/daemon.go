package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/dayplan/dayplan/cmd/common"
	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/daemon"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/hashicorp/go-multierror"
	"github.com/urfave/cli"
)

var daemonFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "poll",
		Usage: "cron expression for reminder ticks",
		Value: dpcommon.DefaultPollExpr,
	},
	cli.StringFlag{
		Name:  "icon",
		Usage: "icon shown with desktop notifications",
	},
	cli.BoolFlag{
		Name:  "lead",
		Usage: "also remind before tasks start and end",
	},
	cli.IntFlag{
		Name:  "keep-history",
		Usage: "days of reminder history to keep, 0 keeps everything",
		Value: 30,
	},
}

var debugEnabled = dpcommon.DebugEnabled

func logPath() (string, error) {
	return dpcommon.ConfigPath(dpcommon.LogFile)
}

// daemonLogger logs to stderr and, when the config dir is writable, to the
// daemon log file as JSON.
func daemonLogger() logger.Logger {
	opts := logger.Options{Component: "daemon", Debug: debugEnabled()}
	console := logger.NewConsoleLogger(os.Stderr, opts)
	path, err := logPath()
	if err != nil {
		return console
	}
	file, err := logger.NewFileLogger(path, opts)
	if err != nil {
		console.Warning("file logging disabled: %v", err)
		return console
	}
	return logger.NewMultiLogger(console, file)
}

func daemonCmd(ctx *cli.Context) error {
	if pid, err := ReadPidFile(); err == nil && pid != os.Getpid() && isProcessRunning(pid) {
		fmt.Fprintf(common.Out, "Daemon is already running (PID %d)\n", pid)
		return nil
	}
	cfg, err := resolveDaemonConfig(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "config", err)
		return nil
	}

	log := daemonLogger()
	defer log.Close()

	if err := WritePidFile(); err != nil {
		log.Warning("write pid file: %v", err)
	}
	defer func() {
		if err := RemovePidFile(); err != nil {
			log.Warning("remove pid file: %v", err)
		}
	}()

	comps, err := initDaemonComponents(cfg, log)
	if err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "init", err)
		return nil
	}
	defer func() {
		if err := comps.Close(); err != nil {
			log.Error("shutdown: %v", err)
		}
	}()

	sigCtx, cancel := setupShutdownHandler()
	defer cancel()
	log.Info("Daemon started (PID %d), schedule service %s", os.Getpid(), cfg.ServerURL)
	if err := runDaemon(sigCtx, comps); err != nil {
		common.PrintRuntimeErr(ctx, "daemon", "run", err)
	}
	return nil
}

func resolveDaemonConfig(ctx *cli.Context) (daemonConfig, error) {
	secret, err := rpcToken()
	if err != nil {
		return daemonConfig{}, err
	}
	histPath, err := dpcommon.ConfigPath(dpcommon.HistoryFile)
	if err != nil {
		return daemonConfig{}, err
	}
	prefsPath, err := dpcommon.ConfigPath(dpcommon.PrefsFile)
	if err != nil {
		return daemonConfig{}, err
	}
	return daemonConfig{
		ServerURL:   serverURL(ctx),
		Port:        rpcPort(ctx),
		Secret:      secret,
		PollExpr:    ctx.String("poll"),
		Icon:        ctx.String("icon"),
		Lead:        ctx.Bool("lead"),
		KeepDays:    ctx.Int("keep-history"),
		HistoryPath: histPath,
		PrefsPath:   prefsPath,
		Fs:          appFs,
	}, nil
}

// runDaemon serves RPC and runs the notifier until ctx is cancelled or
// either of them fails. It returns once both have stopped.
func runDaemon(ctx context.Context, c *DaemonComponents) error {
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		result *multierror.Error
	)
	fail := func(err error) {
		mu.Lock()
		result = multierror.Append(result, err)
		mu.Unlock()
	}

	runCtx, cancelRun := context.WithCancel(context.Background())
	defer cancelRun()
	notifyCtx, stop := context.WithCancel(ctx)
	defer stop()

	wg.Add(2)
	go func() {
		defer wg.Done()
		defer stop()
		if err := c.Runner.Start(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			fail(fmt.Errorf("rpc: %w", err))
		}
	}()
	go func() {
		defer wg.Done()
		defer stop()
		if err := c.Notifier.Run(notifyCtx); err != nil {
			fail(fmt.Errorf("notifier: %w", err))
		}
	}()

	<-notifyCtx.Done()
	if err := c.Runner.Shutdown(); err != nil && !errors.Is(err, daemon.ErrNotRunning) {
		fail(err)
	}
	cancelRun()
	wg.Wait()
	return result.ErrorOrNil()
}
