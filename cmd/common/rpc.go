package common

import (
	"os"

	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/dayplan/dayplan/pkg/keyring"
	"github.com/spf13/afero"
	"github.com/urfave/cli"
)

// NewTokenStore opens the RPC token store: the system keyring, falling back
// to a 0600 file in the config dir. Tests replace it.
var NewTokenStore = func() (keyring.TokenStore, error) {
	path, err := dpcommon.ConfigPath(dpcommon.TokenFile)
	if err != nil {
		return nil, err
	}
	return keyring.NewFallbackStore(
		keyring.NewSystemStore(),
		keyring.NewFileStore(afero.NewOsFs(), path),
	), nil
}

// RPCToken returns DAYPLAN_RPC_SECRET, or the stored token, creating one on
// first use.
func RPCToken() (string, error) {
	if v := os.Getenv(dpcommon.RPCSecretEnv); v != "" {
		return v, nil
	}
	s, err := NewTokenStore()
	if err != nil {
		return "", err
	}
	return keyring.EnsureToken(s)
}

// RPCPort reads the global --rpc-port flag, falling back to the environment.
func RPCPort(ctx *cli.Context) int {
	if p := ctx.GlobalInt("rpc-port"); p > 0 {
		return p
	}
	return dpcommon.RPCPort()
}

// RPCOptions locates and authenticates against the local daemon.
func RPCOptions(ctx *cli.Context) (*dpcli.Options, error) {
	token, err := RPCToken()
	if err != nil {
		return nil, err
	}
	return &dpcli.Options{Port: RPCPort(ctx), Token: token}, nil
}
