package nativehost

import (
	"context"
	"fmt"
	"os"

	"github.com/dayplan/dayplan/cmd/common"
	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/nativehost"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// newHost builds the host; tests replace it.
var newHost = func(c *cli.Context) (*nativehost.Host, func(), error) {
	opts, err := common.RPCOptions(c)
	if err != nil {
		return nil, nil, err
	}
	if os.Getenv(dpcommon.SkipDaemonEnv) == "" {
		if err := dpcli.EnsureDaemon(opts); err != nil {
			return nil, nil, err
		}
	}
	path, err := dpcommon.ConfigPath(dpcommon.PrefsFile)
	if err != nil {
		return nil, nil, err
	}
	client := dpcli.NewClient(opts)
	host := nativehost.NewHost(client, prefs.NewStore(afero.NewOsFs(), path))
	return host, func() { _ = client.Close() }, nil
}

func run(c *cli.Context) error {
	host, closeFn, err := newHost(c)
	if err != nil {
		// stderr reaches the browser's log; stdout is the message channel.
		fmt.Fprintf(os.Stderr, "failed to connect to daemon: %v\n", err)
		return cli.NewExitError("failed to connect to daemon", 1)
	}
	defer closeFn()
	if err := host.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "native host error: %v\n", err)
		return cli.NewExitError("native host error", 1)
	}
	return nil
}
