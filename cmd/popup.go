package cmd

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/internal/popup"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli"
)

var (
	isTerminal = func() bool { return isatty.IsTerminal(os.Stdout.Fd()) }
	runProgram = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
)

// defaultAction opens the popup on a terminal and prints today's schedule
// otherwise.
func defaultAction(ctx *cli.Context) error {
	if arg := ctx.Args().First(); arg != "" {
		return common.PrintErrWithHelp(ctx, cli.NewExitError("unknown command "+arg, 1))
	}
	if !isTerminal() {
		return show(ctx)
	}
	return popupCmd(ctx)
}

func popupCmd(ctx *cli.Context) error {
	log, closeLog := popupLogger()
	defer closeLog()
	svc, err := newSchedClient(serverURL(ctx), log)
	if err != nil {
		common.PrintRuntimeErr(ctx, "popup", "new_client", err)
		return nil
	}
	store, err := prefsStore()
	if err != nil {
		common.PrintRuntimeErr(ctx, "popup", "prefs", err)
		return nil
	}

	var signal func(context.Context) error
	if opts, err := rpcOptions(ctx); err != nil {
		log.Warning("refresh signal disabled: %v", err)
	} else {
		signal = func(c context.Context) error { return dpcli.SendRefresh(c, opts) }
	}
	ctrl := popup.NewController(svc, store, popup.Options{Signal: signal, Log: log})

	c, cancel := context.WithCancel(context.Background())
	defer cancel()
	err = runProgram(popup.NewModel(c, ctrl))
	cancel()
	ctrl.Wait()
	if err != nil {
		common.PrintRuntimeErr(ctx, "popup", "run", err)
	}
	return nil
}

// popupLogger writes to the daemon log file; the terminal belongs to the TUI.
func popupLogger() (logger.Logger, func()) {
	path, err := logPath()
	if err != nil {
		return logger.NewNopLogger(), func() {}
	}
	l, err := logger.NewFileLogger(path, logger.Options{Component: "popup", Debug: debugEnabled()})
	if err != nil {
		return logger.NewNopLogger(), func() {}
	}
	return l, func() { _ = l.Close() }
}
