package cmd

import (
	"context"
	"io"
	"os"

	"github.com/dayplan/dayplan/cmd/common"
	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/dayplan/dayplan/pkg/schedapi"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// Seams for tests.
var (
	appFs          = afero.NewOsFs()
	ensureDaemon   = dpcli.EnsureDaemon
	daemonRunning  = func(opts *dpcli.Options) bool { return dpcli.Ping(context.Background(), opts) }
	newSchedClient = func(url string, l logger.Logger) (*schedapi.Client, error) {
		return schedapi.New(url, schedapi.WithLogger(l))
	}
	logOut io.Writer = os.Stderr
)

var (
	rpcToken   = common.RPCToken
	rpcPort    = common.RPCPort
	rpcOptions = common.RPCOptions
)

func serverURL(ctx *cli.Context) string {
	if v := ctx.GlobalString("server"); v != "" {
		return v
	}
	return dpcommon.ServerURL()
}

// cliLogger writes diagnostics to stderr, leaving stdout to command output.
func cliLogger(component string) logger.Logger {
	return logger.NewConsoleLogger(logOut, logger.Options{Component: component, Debug: debugEnabled()})
}

// daemonClient connects to the daemon, starting one unless
// DAYPLAN_TEST_SKIP_DAEMON is set.
func daemonClient(ctx *cli.Context) (*dpcli.Client, error) {
	opts, err := rpcOptions(ctx)
	if err != nil {
		return nil, err
	}
	if os.Getenv(dpcommon.SkipDaemonEnv) == "" {
		if err := ensureDaemon(opts); err != nil {
			return nil, err
		}
	}
	c := dpcli.NewClient(opts)
	c.CheckVersionMismatch(context.Background(), currentBuildArgs.Version)
	return c, nil
}

func prefsStore() (*prefs.Store, error) {
	path, err := dpcommon.ConfigPath(dpcommon.PrefsFile)
	if err != nil {
		return nil, err
	}
	return prefs.NewStore(appFs, path), nil
}
