package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	dpcommon "github.com/dayplan/dayplan/common"
)

func getPidFilePath() (string, error) {
	return dpcommon.ConfigPath(dpcommon.PidFile)
}

// WritePidFile writes the current process ID to the PID file.
func WritePidFile() error {
	path, err := getPidFilePath()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0644)
}

// ReadPidFile reads and returns the PID from the PID file.
func ReadPidFile() (int, error) {
	path, err := getPidFilePath()
	if err != nil {
		return 0, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("invalid PID in file: %w", err)
	}
	if pid <= 0 {
		return 0, fmt.Errorf("invalid PID: %d", pid)
	}
	return pid, nil
}

// RemovePidFile removes the PID file. A missing file is not an error.
func RemovePidFile() error {
	path, err := getPidFilePath()
	if err != nil {
		return err
	}
	err = os.Remove(path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
