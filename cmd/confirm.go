package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dayplan/dayplan/cmd/common"
)

var stdin io.Reader = os.Stdin

// confirm asks question on the terminal. force skips the prompt.
func confirm(question string, force bool) bool {
	if force {
		return true
	}
	fmt.Fprintf(common.Out, "%s (yes/no): ", question)
	line, _ := bufio.NewReader(stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "yes", "y", "true", "1":
		return true
	default:
		return false
	}
}
