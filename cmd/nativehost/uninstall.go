package nativehost

import (
	"fmt"

	"github.com/urfave/cli"
)

func uninstall(c *cli.Context) error {
	browsers, err := selectBrowsers(c.String("browser"))
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}
	var removed, failed []string
	in := newInstaller("", "")
	for _, b := range browsers {
		path, err := in.Uninstall(b)
		if err != nil {
			failed = append(failed, fmt.Sprintf("%s: %v", b, err))
			continue
		}
		removed = append(removed, fmt.Sprintf("%s: %s", b, path))
	}
	printList("Removed manifests (or were not installed):", removed)
	printList("Errors:", failed)
	return nil
}
