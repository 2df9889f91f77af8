package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/pkg/schedule"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
)

var timeNow = time.Now

var showFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "date, d",
		Usage: "date to show (YYYY-MM-DD), defaults to today",
	},
}

func show(ctx *cli.Context) error {
	c, err := newSchedClient(serverURL(ctx), cliLogger("show"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "show", "new_client", err)
		return nil
	}
	date := ctx.String("date")
	s, err := c.Fetch(context.Background(), date)
	if err != nil {
		common.PrintRuntimeErr(ctx, "show", "fetch", err)
		return nil
	}
	fmt.Fprint(common.Out, formatSchedule(date, s, timeNow()))
	return nil
}

func formatSchedule(date string, s schedule.Schedule, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Tasks for %s\n", schedule.DisplayDate(date))
	if len(s) == 0 {
		b.WriteString("  No tasks scheduled.\n")
		return b.String()
	}
	today := schedule.IsToday(date)
	for _, period := range s.Keys() {
		t := s[period]
		fmt.Fprintf(&b, "  [%s] %s  %s - %s", period, t.Name, t.StartTime, t.EndTime)
		if today {
			if at, ok := clockOn(now, t.StartTime); ok {
				fmt.Fprintf(&b, "  (%s)", humanize.RelTime(at, now, "ago", "from now"))
			}
		}
		if t.Notification != nil && t.Notification.Enabled {
			b.WriteString("  alarm")
		}
		b.WriteString("\n")
		for _, sub := range t.Subtasks {
			fmt.Fprintf(&b, "      • %s\n", sub)
		}
	}
	return b.String()
}

// clockOn places an HH:MM clock on now's day.
func clockOn(now time.Time, clock string) (time.Time, bool) {
	c, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := now.Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), 0, 0, now.Location()), true
}

func dates(ctx *cli.Context) error {
	c, err := newSchedClient(serverURL(ctx), cliLogger("dates"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "dates", "new_client", err)
		return nil
	}
	ds, err := c.AvailableDates(context.Background())
	if err != nil {
		common.PrintRuntimeErr(ctx, "dates", "available_dates", err)
		return nil
	}
	if len(ds) == 0 {
		fmt.Fprintln(common.Out, "No schedules found.")
		return nil
	}
	for _, d := range ds {
		fmt.Fprintln(common.Out, d)
	}
	return nil
}
