package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dayplan/dayplan/cmd/common"
	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
)

func refresh(ctx *cli.Context) error {
	client, err := daemonClient(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "refresh", "new_client", err)
		return nil
	}
	defer client.Close()
	if _, err := client.Refresh(context.Background()); err != nil {
		common.PrintRuntimeErr(ctx, "refresh", "refresh", err)
		return nil
	}
	fmt.Fprintln(common.Out, "Refresh requested.")
	return nil
}

const healthTimeout = 5 * time.Second

func status(ctx *cli.Context) error {
	opts, err := rpcOptions(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "status", "token", err)
		return nil
	}
	if daemonRunning(opts) {
		client := dpcli.NewClient(opts)
		st, err := client.Status(context.Background())
		client.Close()
		if err != nil {
			common.PrintRuntimeErr(ctx, "status", "status", err)
		} else {
			fmt.Fprint(common.Out, formatStatus(st, timeNow()))
		}
	} else {
		fmt.Fprintln(common.Out, "Daemon is not running")
	}
	fmt.Fprintln(common.Out, serviceHealth(ctx))
	return nil
}

// serviceHealth checks the schedule service the CLI is pointed at.
func serviceHealth(ctx *cli.Context) string {
	c, err := newSchedClient(serverURL(ctx), cliLogger("status"))
	if err != nil {
		return fmt.Sprintf("Service health: %v", err)
	}
	hc, cancel := context.WithTimeout(context.Background(), healthTimeout)
	defer cancel()
	if err := c.Health(hc); err != nil {
		return fmt.Sprintf("Service health: unreachable (%v)", err)
	}
	return "Service health: ok"
}

func formatStatus(st *dpcommon.StatusResult, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Schedule service: %s\n", st.ServerURL)
	fmt.Fprintf(&b, "Date: %s\n", st.Date)
	fmt.Fprintf(&b, "Tasks: %d\n", st.Tasks)
	fmt.Fprintf(&b, "Fetched: %s\n", since(st.FetchedAt, now))
	fmt.Fprintf(&b, "Last tick: %s\n", since(st.LastTick, now))
	if st.Refreshing {
		b.WriteString("Refresh in progress\n")
	}
	if st.LastError != "" {
		fmt.Fprintf(&b, "Last error: %s\n", st.LastError)
	}
	return b.String()
}

func since(t, now time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

func watch(ctx *cli.Context) error {
	opts, err := rpcOptions(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "token", err)
		return nil
	}
	client, err := daemonClient(ctx)
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "new_client", err)
		return nil
	}
	client.Close()

	c, cancel := setupShutdownHandler()
	defer cancel()
	fmt.Fprintln(common.Out, "Watching for reminders (Ctrl+C to stop)...")
	err = dpcli.Watch(c, opts, func(n *dpcommon.ReminderNotification) {
		fmt.Fprintln(common.Out, formatReminder(n))
	})
	if err != nil {
		common.PrintRuntimeErr(ctx, "watch", "watch", err)
	}
	return nil
}

func formatReminder(n *dpcommon.ReminderNotification) string {
	line := fmt.Sprintf("%s [%s] %s", n.Clock, n.Kind, n.Title)
	if n.Body != "" {
		line += "\n    " + strings.ReplaceAll(n.Body, "\n", "\n    ")
	}
	return line
}
