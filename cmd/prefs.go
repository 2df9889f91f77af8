package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/urfave/cli"
)

var prefsFlags = []cli.Flag{
	cli.StringFlag{Name: "alarm", Usage: "turn the start alarm on or off"},
	cli.IntFlag{Name: "volume", Usage: "alarm volume (0-100)"},
}

func prefsCmd(ctx *cli.Context) error {
	store, err := prefsStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "prefs", "open", err)
		return nil
	}
	if ctx.IsSet("alarm") {
		on, err := parseSwitch(ctx.String("alarm"))
		if err != nil {
			return common.PrintErrWithCmdHelp(ctx, err)
		}
		if _, err := store.SetAlarmEnabled(on); err != nil {
			common.PrintRuntimeErr(ctx, "prefs", "set_alarm", err)
			return nil
		}
	}
	if ctx.IsSet("volume") {
		if _, err := store.SetVolume(ctx.Int("volume")); err != nil {
			common.PrintRuntimeErr(ctx, "prefs", "set_volume", err)
			return nil
		}
	}
	p, err := store.Load()
	if err != nil {
		common.PrintRuntimeErr(ctx, "prefs", "load", err)
		return nil
	}
	fmt.Fprint(common.Out, formatPrefs(p))
	return nil
}

func parseSwitch(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		return true, nil
	case "off", "false", "no", "0":
		return false, nil
	}
	return false, errors.New("--alarm expects on or off")
}

func formatPrefs(p prefs.Prefs) string {
	if !p.AlarmEnabled {
		return "Alarm: off\n"
	}
	return fmt.Sprintf("Alarm: on\nVolume: %d\n", p.Volume)
}
