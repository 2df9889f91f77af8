package cmd

const HELP_TEMPL = `Usage: {{if .UsageText}}{{.UsageText}}{{else}}{{.HelpName}} {{if .VisibleFlags}}[global options]{{end}}{{if .Commands}} command [command options]{{end}} {{if .ArgsUsage}}{{.ArgsUsage}}{{else}}[arguments...]{{end}}{{end}}
{{.Description}}{{if .VisibleCommands}}
Commands:{{range .VisibleCategories}}{{if .Name}}

{{.Name}}:{{range .VisibleCommands}}
  {{join .Names ", "}}{{"\t"}}{{.Usage}}{{end}}{{else}}{{range .VisibleCommands}}
{{"\t"}}{{index .Names 0}}{{"\t:\t"}}{{.Usage}}{{end}}{{end}}{{end}}{{end}}{{if .VisibleFlags}}

Global Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

Use "{{.HelpName}} help <command>" for more information about any command.

`

const CMD_HELP_TEMPL = `{{if .Description}}{{.Description}}{{else}}{{.HelpName}} - {{.Usage}}

{{end}}Usage:
        {{.HelpName}} {{if .UsageText}}{{.UsageText}}{{else}}[arguments...]{{end}}{{if .VisibleFlags}}

Supported Flags:{{range .VisibleFlags}}
  {{.}}{{end}}{{end}}

`

const DESCRIPTION = `
dayplan keeps a daily schedule on a schedule service and reminds you
when each task starts. Run it without a command to open the popup.
`

const PopupDescription = `Opens the interactive popup: browse today's tasks or any date,
add and delete tasks, copy yesterday's schedule and change the alarm
preferences.

`

const ShowDescription = `Prints the tasks of a day in start time order. Without --date the
current day is shown.

`

const AddDescription = `Adds a task to a day's schedule. Repeat --subtask for every subtask.

Example:
        dayplan add --name Standup --start 09:00 --end 09:15 --subtask "notes"

`

const PrefsDescription = `Without flags prints the current preferences. --alarm turns the audible
start alarm on or off, --volume sets its volume (0-100).

`

const DaemonDescription = `Runs the reminder daemon in the foreground. It polls the schedule
service, fires a desktop notification when a task starts and serves
the control RPC used by the other commands.

`
