// Package nativehost provides the CLI commands for the browser native
// messaging host.
package nativehost

import "github.com/urfave/cli"

// Commands contains all native-host subcommands.
var Commands = []cli.Command{
	{
		Name:   "install",
		Action: install,
		Usage:  "install the native messaging manifest for browsers",
		Flags:  installFlags,
	},
	{
		Name:   "uninstall",
		Action: uninstall,
		Usage:  "remove the native messaging manifest from browsers",
		Flags:  browserFlags,
	},
	{
		Name:   "run",
		Action: run,
		Usage:  "run the native messaging host (called by the browser)",
		Hidden: true,
	},
	{
		Name:   "status",
		Action: status,
		Usage:  "show installation status for all browsers",
	},
}

var browserFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "browser",
		Usage: "browser (chrome, chromium, edge, brave, firefox, all)",
		Value: "all",
	},
}

var installFlags = append([]cli.Flag{
	cli.StringFlag{
		Name:  "chrome-extension-id",
		Usage: "extension ID for Chrome-based browsers",
	},
	cli.StringFlag{
		Name:  "firefox-extension-id",
		Usage: "extension ID for Firefox",
	},
}, browserFlags...)
