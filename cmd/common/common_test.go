package common

import (
	"bytes"
	"errors"
	"flag"
	"strings"
	"testing"

	"github.com/urfave/cli"
)

func newTestContext(t *testing.T) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	app := cli.NewApp()
	app.Name = "dayplan"
	app.HelpName = "dayplan"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	var buf bytes.Buffer
	old := Out
	Out = &buf
	t.Cleanup(func() { Out = old })
	return ctx, &buf
}

func TestPrintRuntimeErr(t *testing.T) {
	ctx, buf := newTestContext(t)
	PrintRuntimeErr(ctx, "delete", "delete_task", errors.New("Task not found"))
	if got := buf.String(); got != "dayplan: delete[delete_task]: Task not found\n" {
		t.Fatalf("output = %q", got)
	}
	buf.Reset()
	PrintRuntimeErr(nil, "cmd", "action", nil)
	if !strings.Contains(buf.String(), "err is nil") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestPrintErrWithHelp(t *testing.T) {
	ctx, buf := newTestContext(t)
	code := -1
	orig := showAppHelpAndExit
	showAppHelpAndExit = func(_ *cli.Context, c int) { code = c }
	defer func() { showAppHelpAndExit = orig }()

	if err := PrintErrWithHelp(ctx, errors.New("bad flag")); err != nil {
		t.Fatal(err)
	}
	if code != 1 || !strings.Contains(buf.String(), "dayplan: bad flag") {
		t.Fatalf("code = %d, output = %q", code, buf.String())
	}
	if err := PrintErrWithHelp(ctx, nil); err != nil {
		t.Fatal(err)
	}
}

func TestUsageErrorCallbackUsesCommandHelp(t *testing.T) {
	ctx, _ := newTestContext(t)
	var shown string
	orig := showCommandHelp
	showCommandHelp = func(_ *cli.Context, name string) error { shown = name; return nil }
	defer func() { showCommandHelp = orig }()

	if err := UsageErrorCallback(ctx, errors.New("flag provided but not defined: -x"), false); err != nil {
		t.Fatal(err)
	}
	if shown != "cmd" {
		t.Fatalf("showed help for %q", shown)
	}
}

func TestGetVersion(t *testing.T) {
	ctx, buf := newTestContext(t)
	VersionCmdStr = "dayplan 1.0.0"
	if err := GetVersion(ctx); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "dayplan 1.0.0\n" {
		t.Fatalf("output = %q", buf.String())
	}
}
