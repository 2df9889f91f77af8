package dpcli

import (
	"errors"
	"testing"
	"time"
)

func stubDaemon(t *testing.T, running func() bool, spawnErr error) *int {
	t.Helper()
	oldSpawn, oldRunning := spawnDaemon, isDaemonRunning
	t.Cleanup(func() { spawnDaemon, isDaemonRunning = oldSpawn, oldRunning })
	spawns := 0
	spawnDaemon = func() error {
		spawns++
		return spawnErr
	}
	isDaemonRunning = func(*Options) bool { return running() }
	return &spawns
}

func TestEnsureDaemonAlreadyRunning(t *testing.T) {
	spawns := stubDaemon(t, func() bool { return true }, nil)
	if err := EnsureDaemon(nil); err != nil {
		t.Fatal(err)
	}
	if *spawns != 0 {
		t.Fatalf("spawned %d times", *spawns)
	}
}

func TestEnsureDaemonSpawnsAndWaits(t *testing.T) {
	calls := 0
	spawns := stubDaemon(t, func() bool {
		calls++
		return calls > 3
	}, nil)
	if err := EnsureDaemon(nil); err != nil {
		t.Fatal(err)
	}
	if *spawns != 1 {
		t.Fatalf("spawned %d times", *spawns)
	}
}

func TestEnsureDaemonSpawnError(t *testing.T) {
	boom := errors.New("boom")
	stubDaemon(t, func() bool { return false }, boom)
	if err := EnsureDaemon(nil); !errors.Is(err, boom) {
		t.Fatalf("expected spawn error, got %v", err)
	}
}

func TestWaitForDaemonTimeout(t *testing.T) {
	stubDaemon(t, func() bool { return false }, nil)
	start := time.Now()
	if err := waitForDaemon(nil, 120*time.Millisecond); err == nil {
		t.Fatal("expected timeout")
	}
	if time.Since(start) < 100*time.Millisecond {
		t.Fatal("returned before the deadline")
	}
}
