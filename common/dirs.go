package common

import (
	"fmt"
	"os"
	"path/filepath"
)

// File names inside the configuration directory.
const (
	PrefsFile   = "prefs.json"
	PidFile     = "daemon.pid"
	HistoryFile = "history.db"
	LogFile     = "daemon.log"
	TokenFile   = "rpc.token"
)

// ConfigDir returns the dayplan configuration directory, creating it if needed.
// DAYPLAN_CONFIG_DIR takes precedence over the user configuration directory.
func ConfigDir() (string, error) {
	dir := os.Getenv(ConfigDirEnv)
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("locate user config dir: %w", err)
		}
		dir = filepath.Join(base, "dayplan")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return abs, nil
}

// ConfigPath joins name onto the configuration directory.
func ConfigPath(name string) (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
