package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestServerURL(t *testing.T) {
	t.Setenv(ServerURLEnv, "")
	if got := ServerURL(); got != DefaultServerURL {
		t.Fatalf("ServerURL() = %q, want default", got)
	}
	t.Setenv(ServerURLEnv, "http://127.0.0.1:9000")
	if got := ServerURL(); got != "http://127.0.0.1:9000" {
		t.Fatalf("ServerURL() = %q", got)
	}
}

func TestRPCPort(t *testing.T) {
	tests := []struct {
		env  string
		want int
	}{
		{"", DefaultRPCPort},
		{"6000", 6000},
		{"abc", DefaultRPCPort},
		{"0", DefaultRPCPort},
		{"70000", DefaultRPCPort},
	}
	for _, tt := range tests {
		t.Setenv(RPCPortEnv, tt.env)
		if got := RPCPort(); got != tt.want {
			t.Errorf("RPCPort() with %q = %d, want %d", tt.env, got, tt.want)
		}
	}
}

func TestDebugEnabled(t *testing.T) {
	t.Setenv(DebugEnv, "1")
	if !DebugEnabled() {
		t.Fatal("expected debug enabled")
	}
	t.Setenv(DebugEnv, "nope")
	if DebugEnabled() {
		t.Fatal("expected debug disabled")
	}
}

func TestConfigDirOverride(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dayplan")
	t.Setenv(ConfigDirEnv, dir)
	got, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir: %v", err)
	}
	if got != dir {
		t.Fatalf("ConfigDir() = %q, want %q", got, dir)
	}
	if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
		t.Fatalf("config dir not created: %v", err)
	}
	p, err := ConfigPath(PrefsFile)
	if err != nil || p != filepath.Join(dir, PrefsFile) {
		t.Fatalf("ConfigPath = %q, %v", p, err)
	}
}
