package nativehost

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/internal/nativehost"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

func setup(t *testing.T) (afero.Fs, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	var buf bytes.Buffer
	oldFs, oldHome, oldExe, oldOut := hostFs, homeDir, executablePath, common.Out
	hostFs, homeDir = fs, "/home/tester"
	executablePath = func() (string, error) { return "/usr/local/bin/dayplan", nil }
	common.Out = &buf
	oldExiter := cli.OsExiter
	cli.OsExiter = func(int) {}
	t.Cleanup(func() {
		hostFs, homeDir, executablePath, common.Out = oldFs, oldHome, oldExe, oldOut
		cli.OsExiter = oldExiter
	})
	return fs, &buf
}

func runApp(args ...string) error {
	app := cli.NewApp()
	app.Name = "dayplan"
	app.Commands = []cli.Command{{Name: "native-host", Subcommands: Commands}}
	return app.Run(append([]string{"dayplan", "native-host"}, args...))
}

func TestInstallWritesManifest(t *testing.T) {
	fs, buf := setup(t)
	if err := runApp("install", "--browser", "chrome", "--chrome-extension-id", "abcdef"); err != nil {
		t.Fatal(err)
	}
	path, err := newInstaller("", "").Path(nativehost.BrowserChrome)
	if err != nil {
		t.Fatal(err)
	}
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		t.Fatalf("manifest not written: %v", err)
	}
	if !strings.Contains(string(data), "chrome-extension://abcdef/") {
		t.Fatalf("manifest = %s", data)
	}
	if !strings.Contains(string(data), "/usr/local/bin/dayplan") {
		t.Fatalf("manifest lacks host path: %s", data)
	}
	if !strings.Contains(buf.String(), "Installed manifests:") {
		t.Fatalf("output = %q", buf.String())
	}
}

func TestInstallRequiresExtensionID(t *testing.T) {
	setup(t)
	if err := runApp("install"); err == nil {
		t.Fatal("expected error without extension IDs")
	}
}

func TestInstallSkipsBrowsersWithoutID(t *testing.T) {
	fs, _ := setup(t)
	if err := runApp("install", "--firefox-extension-id", "dayplan@example.org"); err != nil {
		t.Fatal(err)
	}
	ff, _ := newInstaller("", "").Path(nativehost.BrowserFirefox)
	chrome, _ := newInstaller("", "").Path(nativehost.BrowserChrome)
	if ok, _ := afero.Exists(fs, ff); !ok {
		t.Fatal("firefox manifest missing")
	}
	if ok, _ := afero.Exists(fs, chrome); ok {
		t.Fatal("chrome manifest written without an ID")
	}
}

func TestUninstallAndStatus(t *testing.T) {
	fs, buf := setup(t)
	if err := runApp("install", "--browser", "brave", "--chrome-extension-id", "abcdef"); err != nil {
		t.Fatal(err)
	}
	buf.Reset()
	if err := runApp("status"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "brave: Installed") {
		t.Fatalf("status = %q", buf.String())
	}
	if !strings.Contains(buf.String(), "chrome: Not installed") {
		t.Fatalf("status = %q", buf.String())
	}

	if err := runApp("uninstall", "--browser", "brave"); err != nil {
		t.Fatal(err)
	}
	path, _ := newInstaller("", "").Path(nativehost.BrowserBrave)
	if ok, _ := afero.Exists(fs, path); ok {
		t.Fatal("manifest still present after uninstall")
	}
}

func TestSelectBrowsers(t *testing.T) {
	all, err := selectBrowsers("all")
	if err != nil || len(all) != len(nativehost.SupportedBrowsers()) {
		t.Fatalf("all = %v, %v", all, err)
	}
	if _, err := selectBrowsers("netscape"); err == nil {
		t.Fatal("expected error for unknown browser")
	}
}
