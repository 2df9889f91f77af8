package nativehost

import (
	"fmt"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/internal/nativehost"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

func status(c *cli.Context) error {
	fmt.Fprintln(common.Out, "Native Messaging Host Status")
	fmt.Fprintln(common.Out, "============================")
	fmt.Fprintf(common.Out, "Host Name: %s\n\n", nativehost.HostName)

	fs := hostFs
	if fs == nil {
		fs = afero.NewOsFs()
	}
	in := newInstaller("", "")
	for _, b := range nativehost.SupportedBrowsers() {
		path, err := in.Path(b)
		if err != nil {
			fmt.Fprintf(common.Out, "%s: unsupported (%v)\n", b, err)
			continue
		}
		if ok, _ := afero.Exists(fs, path); ok {
			fmt.Fprintf(common.Out, "%s: Installed\n  Path: %s\n", b, path)
		} else {
			fmt.Fprintf(common.Out, "%s: Not installed\n", b)
		}
	}
	return nil
}
