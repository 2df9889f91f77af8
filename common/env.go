// Package common provides constants, environment names and wire types shared
// by the dayplan daemon and its clients.
package common

import (
	"os"
	"strconv"
)

// Environment variable names for configuration.
const (
	// ConfigDirEnv overrides the configuration directory.
	ConfigDirEnv = "DAYPLAN_CONFIG_DIR"

	// ServerURLEnv overrides the schedule service base URL.
	ServerURLEnv = "DAYPLAN_SERVER_URL"

	// RPCPortEnv overrides the daemon RPC port.
	RPCPortEnv = "DAYPLAN_RPC_PORT"

	// RPCSecretEnv supplies the daemon RPC bearer token, bypassing the keyring.
	RPCSecretEnv = "DAYPLAN_RPC_SECRET"

	// DebugEnv enables debug logging.
	DebugEnv = "DAYPLAN_DEBUG"

	// SkipDaemonEnv disables automatic daemon spawning (tests, packaging).
	SkipDaemonEnv = "DAYPLAN_TEST_SKIP_DAEMON"
)

// ServerURL returns the schedule service URL from the environment or the default.
func ServerURL() string {
	if v := os.Getenv(ServerURLEnv); v != "" {
		return v
	}
	return DefaultServerURL
}

// RPCPort returns the daemon RPC port from the environment or the default.
// Invalid values fall back to the default.
func RPCPort() int {
	if v := os.Getenv(RPCPortEnv); v != "" {
		if p, err := strconv.Atoi(v); err == nil && p > 0 && p < 65536 {
			return p
		}
	}
	return DefaultRPCPort
}

// DebugEnabled reports whether DAYPLAN_DEBUG is set to a truthy value.
func DebugEnabled() bool {
	v, _ := strconv.ParseBool(os.Getenv(DebugEnv))
	return v
}
