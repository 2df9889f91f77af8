// Package cmd implements the dayplan command line.
package cmd

import (
	"fmt"
	"runtime"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/cmd/nativehost"
	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/urfave/cli"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

// currentBuildArgs is reported by the daemon's version method and compared
// against it by clients.
var currentBuildArgs BuildArgs

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "server, s",
		Usage:  "schedule service base URL",
		Value:  dpcommon.DefaultServerURL,
		EnvVar: dpcommon.ServerURLEnv,
	},
	cli.IntFlag{
		Name:   "rpc-port",
		Usage:  "daemon RPC port",
		Value:  dpcommon.DefaultRPCPort,
		EnvVar: dpcommon.RPCPortEnv,
	},
}

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "dayplan",
		HelpName:              "dayplan",
		Usage:                 "A daily schedule with desktop reminders.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "dayplan <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "popup",
				Aliases:            []string{"p"},
				Usage:              "open the interactive schedule popup",
				Action:             popupCmd,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        PopupDescription,
			},
			{
				Name:               "show",
				Aliases:            []string{"ls"},
				Usage:              "print the schedule of a day",
				Action:             show,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        ShowDescription,
				Flags:              showFlags,
			},
			{
				Name:               "dates",
				Usage:              "list the dates that have a schedule",
				Action:             dates,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:                   "add",
				Aliases:                []string{"a"},
				Usage:                  "add a task",
				Action:                 add,
				OnUsageError:           common.UsageErrorCallback,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				Description:            AddDescription,
				Flags:                  addFlags,
				UseShortOptionHandling: true,
			},
			{
				Name:               "delete",
				Aliases:            []string{"rm"},
				Usage:              "delete a task",
				UsageText:          "delete <id> [--force]",
				Action:             deleteTask,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Flags:              deleteFlags,
			},
			{
				Name:               "copy",
				Usage:              "copy yesterday's schedule to today",
				Action:             copySchedule,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
			},
			{
				Name:               "prefs",
				Usage:              "show or change the alarm preferences",
				Action:             prefsCmd,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        PrefsDescription,
				Flags:              prefsFlags,
			},
			{
				Name:   "refresh",
				Usage:  "ask the daemon to refetch the schedule",
				Action: refresh,
			},
			{
				Name:   "status",
				Usage:  "show the daemon status",
				Action: status,
			},
			{
				Name:   "watch",
				Usage:  "print reminders as the daemon fires them",
				Action: watch,
			},
			{
				Name:               "history",
				Usage:              "list delivered reminders",
				Action:             historyCmd,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Flags:              historyFlags,
			},
			{
				Name:               "daemon",
				Usage:              "run the reminder daemon in the foreground",
				Action:             daemonCmd,
				OnUsageError:       common.UsageErrorCallback,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Description:        DaemonDescription,
				Flags:              daemonFlags,
			},
			{
				Name:   "stop",
				Usage:  "stop the running daemon",
				Action: stopDaemon,
			},
			{
				Name:        "native-host",
				Usage:       "manage the browser native messaging host",
				Subcommands: nativehost.Commands,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of dayplan",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      defaultAction,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}
