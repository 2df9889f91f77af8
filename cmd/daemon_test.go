package cmd

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	dpcommon "github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/history"
	"github.com/dayplan/dayplan/internal/notifier"
	"github.com/dayplan/dayplan/pkg/dpcli"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/dayplan/dayplan/pkg/schedule"
	"github.com/spf13/afero"
)

func TestPidFileRoundTrip(t *testing.T) {
	if err := WritePidFile(); err != nil {
		t.Fatal(err)
	}
	pid, err := ReadPidFile()
	if err != nil {
		t.Fatal(err)
	}
	if pid != os.Getpid() {
		t.Fatalf("pid = %d, want %d", pid, os.Getpid())
	}
	if !isProcessRunning(pid) {
		t.Fatal("own process reported as not running")
	}
	if err := RemovePidFile(); err != nil {
		t.Fatal(err)
	}
	if err := RemovePidFile(); err != nil {
		t.Fatalf("second remove: %v", err)
	}
	if _, err := ReadPidFile(); !os.IsNotExist(err) {
		t.Fatalf("ReadPidFile after remove: %v", err)
	}
}

func TestReadPidFileRejectsGarbage(t *testing.T) {
	path, err := getPidFilePath()
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(path)
	for _, content := range []string{"abc", "-4", "0"} {
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadPidFile(); err == nil {
			t.Errorf("ReadPidFile accepted %q", content)
		}
	}
}

func TestStopWithoutPidFile(t *testing.T) {
	_ = RemovePidFile()
	if out := runCmd(t, "stop"); out != "Daemon is not running (PID file not found)\n" {
		t.Fatalf("output = %q", out)
	}
}

func TestStopSignalsRunningDaemon(t *testing.T) {
	if err := WritePidFile(); err != nil {
		t.Fatal(err)
	}
	defer RemovePidFile()
	var killed int
	old := killDaemonFunc
	killDaemonFunc = func(pid int) error { killed = pid; return nil }
	defer func() { killDaemonFunc = old }()

	out := runCmd(t, "stop")
	if killed != os.Getpid() {
		t.Fatalf("killed pid %d", killed)
	}
	if !strings.Contains(out, "Daemon stopped successfully") {
		t.Fatalf("output = %q", out)
	}
}

func TestRunDaemonServesUntilCancelled(t *testing.T) {
	svc := newService(t)
	start := time.Now().Add(-2 * time.Hour).Format("15:04")
	svc.Put("2026-03-14", schedule.Task{Name: "Plan", StartTime: start, EndTime: start})

	dir := t.TempDir()
	comps, err := initDaemonComponents(daemonConfig{
		ServerURL:   svc.URL,
		Port:        0,
		Secret:      "daemon-secret",
		PollExpr:    dpcommon.DefaultPollExpr,
		HistoryPath: filepath.Join(dir, "history.db"),
		PrefsPath:   "/prefs.json",
		Fs:          afero.NewMemMapFs(),
	}, logger.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer comps.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runDaemon(ctx, comps) }()

	var addr net.Addr
	deadline := time.Now().Add(3 * time.Second)
	for addr == nil && time.Now().Before(deadline) {
		addr = comps.Runner.Addr()
		time.Sleep(10 * time.Millisecond)
	}
	if addr == nil {
		cancel()
		t.Fatal("daemon never bound its listener")
	}
	opts := &dpcli.Options{Port: addr.(*net.TCPAddr).Port, Token: "daemon-secret"}
	client := dpcli.NewClient(opts)
	defer client.Close()

	var st *dpcommon.StatusResult
	for time.Now().Before(deadline) {
		st, err = client.Status(context.Background())
		if err == nil && st.Tasks == 1 {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil || st == nil || st.Tasks != 1 {
		cancel()
		t.Fatalf("status = %+v, %v", st, err)
	}
	if st.ServerURL != svc.URL {
		t.Errorf("server url = %q", st.ServerURL)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("runDaemon: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runDaemon did not return after cancel")
	}
	if dpcli.Ping(context.Background(), opts) {
		t.Fatal("daemon still answering after shutdown")
	}
}

func TestRunDaemonRejectsBadPollExpr(t *testing.T) {
	svc := newService(t)
	comps, err := initDaemonComponents(daemonConfig{
		ServerURL:   svc.URL,
		Secret:      "s",
		PollExpr:    "not a cron expression",
		HistoryPath: filepath.Join(t.TempDir(), "history.db"),
		PrefsPath:   "/prefs.json",
		Fs:          afero.NewMemMapFs(),
	}, logger.NewNopLogger())
	if err != nil {
		t.Fatal(err)
	}
	defer comps.Close()

	done := make(chan error, 1)
	go func() { done <- runDaemon(context.Background(), comps) }()
	select {
	case err := <-done:
		if err == nil || !strings.Contains(err.Error(), "notifier") {
			t.Fatalf("err = %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("runDaemon kept running with an invalid poll expression")
	}
}

func TestHistoryCommand(t *testing.T) {
	path, err := dpcommon.ConfigPath(dpcommon.HistoryFile)
	if err != nil {
		t.Fatal(err)
	}
	log, err := history.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = log.Record(context.Background(), notifier.Reminder{
		Date: "2026-03-14", Period: "p1", Kind: notifier.KindStart, Clock: "08:45",
		Title: "Time for Walk", At: fixedNow.Add(-15 * time.Minute),
	})
	log.Close()
	if err != nil {
		t.Fatal(err)
	}

	out := runCmd(t, "history", "--limit", "5")
	if !strings.Contains(out, "15 minutes ago") || !strings.Contains(out, "Time for Walk") {
		t.Fatalf("output = %q", out)
	}
}

func TestFormatStatus(t *testing.T) {
	out := formatStatus(&dpcommon.StatusResult{
		Date:      "Today",
		Tasks:     3,
		FetchedAt: fixedNow.Add(-2 * time.Minute),
		LastError: "connection refused",
		ServerURL: "http://localhost:5000",
	}, fixedNow)
	for _, want := range []string{"Tasks: 3", "Fetched: 2 minutes ago", "Last tick: never", "Last error: connection refused"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in:\n%s", want, out)
		}
	}
}

func TestFormatReminder(t *testing.T) {
	got := formatReminder(&dpcommon.ReminderNotification{Clock: "09:00", Kind: "start", Title: "Time for Standup", Body: "a\nb"})
	want := "09:00 [start] Time for Standup\n    a\n    b"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
