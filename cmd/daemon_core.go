package cmd

import (
	"context"
	"time"

	"github.com/dayplan/dayplan/internal/daemon"
	"github.com/dayplan/dayplan/internal/desktop"
	"github.com/dayplan/dayplan/internal/history"
	"github.com/dayplan/dayplan/internal/notifier"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/internal/server"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/dayplan/dayplan/pkg/schedapi"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

const daemonShutdownTimeout = 5 * time.Second

// daemonConfig is everything the daemon needs, resolved from flags and the
// environment.
type daemonConfig struct {
	ServerURL   string
	Port        int
	Secret      string
	PollExpr    string
	Icon        string
	Lead        bool
	KeepDays    int
	HistoryPath string
	PrefsPath   string
	Fs          afero.Fs
}

// DaemonComponents holds the initialized daemon parts so they are torn down
// in one place.
type DaemonComponents struct {
	History  *history.Log
	Notifier *notifier.Notifier
	Server   *server.Server
	Runner   *daemon.Runner
	log      logger.Logger
}

// Close releases the components in reverse order of initialization.
func (c *DaemonComponents) Close() error {
	var result *multierror.Error
	if c.History != nil {
		if err := c.History.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if c.log != nil {
		c.log.Info("Daemon stopped")
	}
	return result.ErrorOrNil()
}

// initDaemonComponents wires the notifier, its sinks and the RPC front end.
// On error, anything already opened is closed before returning.
var initDaemonComponents = func(cfg daemonConfig, log logger.Logger) (*DaemonComponents, error) {
	fetch, err := schedapi.New(cfg.ServerURL, schedapi.WithLogger(log))
	if err != nil {
		log.Error("Schedule client initialization failed: %v", err)
		return nil, err
	}

	hist, err := history.Open(cfg.HistoryPath)
	if err != nil {
		log.Error("History initialization failed: %v", err)
		return nil, err
	}
	if cfg.KeepDays > 0 {
		n, err := hist.Prune(context.Background(), time.Now().AddDate(0, 0, -cfg.KeepDays))
		if err != nil {
			log.Warning("history prune: %v", err)
		} else if n > 0 {
			log.Info("pruned %d history entries", n)
		}
	}

	fs := cfg.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	push := server.NewRPCNotifier(log)
	sink := notifier.MultiSink{
		desktop.NewSink(cfg.Icon, prefs.NewStore(fs, cfg.PrefsPath), log),
		push,
	}
	n := notifier.New(fetch, sink, notifier.Options{
		Lead:     cfg.Lead,
		PollExpr: cfg.PollExpr,
		Recorder: hist,
		Log:      log,
	})

	rpc := server.NewRPCServer(&server.RPCConfig{
		Secret:    cfg.Secret,
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
		ServerURL: fetch.BaseURL(),
	}, n, push, log)
	srv := server.NewServer(rpc, log)

	runner := daemon.New(&daemon.Config{
		Port:            cfg.Port,
		ShutdownTimeout: daemonShutdownTimeout,
	}, &daemon.Dependencies{
		Serve: srv.Serve,
		ShutdownFunc: func() error {
			ctx, cancel := context.WithTimeout(context.Background(), daemonShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})

	return &DaemonComponents{
		History:  hist,
		Notifier: n,
		Server:   srv,
		Runner:   runner,
		log:      log,
	}, nil
}
