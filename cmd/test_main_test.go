package cmd

import (
	"os"
	"testing"

	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/pkg/dpcli"
)

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "dayplan-cmd-test")
	if err != nil {
		panic(err)
	}
	_ = os.Setenv(dpcommon.SkipDaemonEnv, "1")
	_ = os.Setenv(dpcommon.ConfigDirEnv, dir)
	_ = os.Setenv(dpcommon.RPCSecretEnv, "test-secret")
	_ = os.Setenv(dpcli.VersionCheckEnv, "1")
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}
