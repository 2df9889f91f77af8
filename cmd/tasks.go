package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/internal/popup"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/dayplan/dayplan/pkg/schedapi"
	"github.com/dayplan/dayplan/pkg/schedule"
	"github.com/urfave/cli"
)

var addFlags = []cli.Flag{
	cli.StringFlag{Name: "name, n", Usage: "task name"},
	cli.StringFlag{Name: "date, d", Usage: "date of the task (YYYY-MM-DD), defaults to today"},
	cli.StringFlag{Name: "start, s", Usage: "start time (HH:MM)"},
	cli.StringFlag{Name: "end, e", Usage: "end time (HH:MM)"},
	cli.StringSliceFlag{Name: "subtask, t", Usage: "subtask, repeatable"},
	cli.BoolFlag{Name: "alarm", Usage: "enable the task alarm"},
	cli.StringFlag{Name: "sound", Usage: "alarm sound type", Value: "default"},
	cli.IntFlag{Name: "volume", Usage: "alarm volume (0-100)", Value: prefs.DefaultVolume},
	cli.IntFlag{Name: "reminder", Usage: "minutes of notice before the task", Value: 5},
}

var deleteFlags = []cli.Flag{
	cli.BoolFlag{Name: "force, f", Usage: "do not ask for confirmation"},
}

func add(ctx *cli.Context) error {
	name := strings.TrimSpace(ctx.String("name"))
	start, end := ctx.String("start"), ctx.String("end")
	if name == "" || start == "" || end == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--name, --start and --end are required"))
	}
	c, err := newSchedClient(serverURL(ctx), cliLogger("add"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "add", "new_client", err)
		return nil
	}
	date := ctx.String("date")
	if date == "" {
		date = timeNow().Format(schedule.DateLayout)
	}
	form := popup.Form{
		Name:         name,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Subtasks:     strings.Join(ctx.StringSlice("subtask"), "\n"),
		Alarm:        ctx.Bool("alarm"),
		SoundType:    ctx.String("sound"),
		Volume:       ctx.Int("volume"),
		ReminderTime: ctx.Int("reminder"),
	}
	if err := c.AddTask(context.Background(), form.Request()); err != nil {
		common.PrintRuntimeErr(ctx, "add", "add_task", err)
		return nil
	}
	fmt.Fprintf(common.Out, "Added %q on %s at %s.\n", name, date, start)
	signalDaemon(ctx)
	return nil
}

func deleteTask(ctx *cli.Context) error {
	id := ctx.Args().First()
	if id == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no task id provided"))
	}
	if !confirm(popup.DeleteConfirmation, ctx.Bool("force")) {
		fmt.Fprintln(common.Out, "Cancelled delete operation!")
		return nil
	}
	c, err := newSchedClient(serverURL(ctx), cliLogger("delete"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "delete", "new_client", err)
		return nil
	}
	msg, err := c.DeleteTask(context.Background(), id)
	if schedapi.IsNotFound(err) {
		fmt.Fprintf(common.Out, "No task with id %q.\n", id)
		return nil
	}
	if err != nil {
		common.PrintRuntimeErr(ctx, "delete", "delete_task", err)
		return nil
	}
	if msg == "" {
		msg = "Task deleted."
	}
	fmt.Fprintln(common.Out, msg)
	signalDaemon(ctx)
	return nil
}

func copySchedule(ctx *cli.Context) error {
	c, err := newSchedClient(serverURL(ctx), cliLogger("copy"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "copy", "new_client", err)
		return nil
	}
	source, target := schedule.CopyDates(timeNow())
	if _, err := c.CopySchedule(context.Background(), source, target); err != nil {
		common.PrintRuntimeErr(ctx, "copy", "copy_schedule", err)
		return nil
	}
	fmt.Fprintln(common.Out, "Schedule copied successfully")
	signalDaemon(ctx)
	return nil
}

// signalDaemon asks a running daemon to refetch. Failures are ignored; a
// daemon fetches the schedule when it starts.
func signalDaemon(ctx *cli.Context) {
	opts, err := rpcOptions(ctx)
	if err != nil || !daemonRunning(opts) {
		return
	}
	_ = dpcli.SendRefresh(context.Background(), opts)
}
