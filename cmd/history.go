package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/dayplan/dayplan/cmd/common"
	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/history"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli"
)

var historyFlags = []cli.Flag{
	cli.IntFlag{Name: "limit, n", Usage: "number of entries to show", Value: 20},
	cli.IntFlag{Name: "prune", Usage: "delete entries older than this many days"},
}

func historyCmd(ctx *cli.Context) error {
	path, err := dpcommon.ConfigPath(dpcommon.HistoryFile)
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "config_dir", err)
		return nil
	}
	log, err := history.Open(path)
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "open", err)
		return nil
	}
	defer log.Close()

	bg := context.Background()
	if days := ctx.Int("prune"); days > 0 {
		n, err := log.Prune(bg, timeNow().AddDate(0, 0, -days))
		if err != nil {
			common.PrintRuntimeErr(ctx, "history", "prune", err)
			return nil
		}
		fmt.Fprintf(common.Out, "Pruned %d entries.\n", n)
	}
	entries, err := log.Recent(bg, ctx.Int("limit"))
	if err != nil {
		common.PrintRuntimeErr(ctx, "history", "recent", err)
		return nil
	}
	fmt.Fprint(common.Out, formatHistory(entries, timeNow()))
	return nil
}

func formatHistory(entries []history.Entry, now time.Time) string {
	if len(entries) == 0 {
		return "No reminders delivered yet.\n"
	}
	var s string
	for _, e := range entries {
		s += fmt.Sprintf("%-16s %s %s %-8s %s\n",
			humanize.RelTime(e.DeliveredAt, now, "ago", "from now"),
			e.Date, e.Clock, e.Kind, e.Title)
	}
	return s
}
