package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConsoleLogger_JSONLevels(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, Options{Component: "notifier", JSON: true})

	l.Debug("hidden %d", 1)
	l.Info("fetched %d tasks", 3)
	l.Warning("refresh failed: %s", "timeout")
	l.Error("boom")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 records (debug filtered), got %d:\n%s", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("invalid json record: %v", err)
	}
	if rec["level"] != "info" || rec["message"] != "fetched 3 tasks" || rec["component"] != "notifier" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if !strings.Contains(lines[1], `"level":"warn"`) {
		t.Errorf("expected warn level, got %s", lines[1])
	}
	if !strings.Contains(lines[2], `"level":"error"`) {
		t.Errorf("expected error level, got %s", lines[2])
	}
}

func TestConsoleLogger_Debug(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, Options{Debug: true, JSON: true})
	l.Debug("tick %s", "09:00")
	if !strings.Contains(buf.String(), "tick 09:00") {
		t.Fatalf("debug record missing: %s", buf.String())
	}
}

func TestConsoleLogger_HumanOutput(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewConsoleLogger(buf, Options{})
	l.Info("daemon started")
	if !strings.Contains(buf.String(), "daemon started") {
		t.Fatalf("expected message in console output, got %q", buf.String())
	}
}

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "daemon.log")
	l, err := NewFileLogger(path, Options{})
	if err != nil {
		t.Fatalf("NewFileLogger: %v", err)
	}
	l.Info("written")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `"message":"written"`) {
		t.Fatalf("unexpected file content: %s", data)
	}
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	l.Debug("x")
	l.Info("x")
	l.Warning("x")
	l.Error("x")
	if err := l.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestMockLogger(t *testing.T) {
	m := NewMockLogger()
	m.Info("a %d", 1)
	m.Warning("b")
	m.Error("c")
	_ = m.Close()
	if len(m.InfoCalls) != 1 || m.InfoCalls[0] != "a 1" {
		t.Errorf("unexpected info calls: %v", m.InfoCalls)
	}
	if len(m.Warnings()) != 1 || len(m.Errors()) != 1 || !m.CloseCalled {
		t.Errorf("unexpected mock state: %+v", m)
	}
}

type failingCloser struct{ NopLogger }

func (failingCloser) Close() error { return errors.New("close failed") }

func TestMultiLogger(t *testing.T) {
	a, b := NewMockLogger(), NewMockLogger()
	m := NewMultiLogger(a, b)
	m.Debug("d")
	m.Info("i")
	m.Warning("w")
	m.Error("e")
	for _, l := range []*MockLogger{a, b} {
		if len(l.DebugCalls) != 1 || len(l.InfoCalls) != 1 || len(l.WarningCalls) != 1 || len(l.ErrorCalls) != 1 {
			t.Fatalf("backend missed records: %+v", l)
		}
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	m = NewMultiLogger(failingCloser{}, a, failingCloser{})
	err := m.Close()
	if err == nil || !strings.Contains(err.Error(), "2 errors") {
		t.Fatalf("expected aggregated error, got %v", err)
	}
}
