package nativehost

import (
	"fmt"
	"os"

	"github.com/dayplan/dayplan/cmd/common"
	"github.com/dayplan/dayplan/internal/nativehost"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// Seams for tests.
var (
	hostFs         afero.Fs
	homeDir        string
	executablePath = os.Executable
)

func newInstaller(hostPath, extensionID string) *nativehost.Installer {
	return &nativehost.Installer{
		HostPath:    hostPath,
		ExtensionID: extensionID,
		Fs:          hostFs,
		HomeDir:     homeDir,
	}
}

// selectBrowsers expands the --browser flag.
func selectBrowsers(name string) ([]nativehost.Browser, error) {
	if name == "" || name == "all" {
		return nativehost.SupportedBrowsers(), nil
	}
	b, err := nativehost.ParseBrowser(name)
	if err != nil {
		return nil, err
	}
	return []nativehost.Browser{b}, nil
}

func install(c *cli.Context) error {
	chromeID := c.String("chrome-extension-id")
	firefoxID := c.String("firefox-extension-id")
	if chromeID == "" && firefoxID == "" {
		return cli.NewExitError("at least one extension ID is required (--chrome-extension-id or --firefox-extension-id)", 1)
	}
	browsers, err := selectBrowsers(c.String("browser"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	hostPath, err := executablePath()
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("failed to get executable path: %v", err), 1)
	}

	var installed, failed []string
	for _, b := range browsers {
		id := chromeID
		if b == nativehost.BrowserFirefox {
			id = firefoxID
		}
		if id == "" {
			continue
		}
		path, err := newInstaller(hostPath, id).Install(b)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", b, err))
			continue
		}
		installed = append(installed, fmt.Sprintf("%s: %s", b, path))
	}

	printList("Installed manifests:", installed)
	printList("Errors:", failed)
	if len(installed) == 0 {
		return cli.NewExitError("installation failed", 1)
	}
	return nil
}

func printList(title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(common.Out, title)
	for _, it := range items {
		fmt.Fprintf(common.Out, "  %s\n", it)
	}
}
