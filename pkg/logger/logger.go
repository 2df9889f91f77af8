// Package logger provides the logging interface shared by the dayplan daemon
// and CLI. The default backend is zerolog; tests use NopLogger or MockLogger.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Logger is implemented by every logging backend.
type Logger interface {
	// Debug logs verbose diagnostics (e.g., "fetched 4 tasks").
	Debug(format string, args ...interface{})

	// Info logs an informational message (e.g., "Daemon started").
	Info(format string, args ...interface{})

	// Warning logs a recoverable problem (e.g., "Schedule refresh failed").
	Warning(format string, args ...interface{})

	// Error logs an error message (e.g., "Failed to listen: address in use").
	Error(format string, args ...interface{})

	// Close releases resources held by the logger. Safe to call multiple times.
	Close() error
}

// ConsoleLogger writes leveled records through zerolog.
type ConsoleLogger struct {
	zl     zerolog.Logger
	closer io.Closer
	once   sync.Once
}

// Options configures a ConsoleLogger.
type Options struct {
	// Component is attached to every record as the "component" field.
	Component string
	// Debug lowers the level to Debug.
	Debug bool
	// JSON disables the human readable console writer.
	JSON bool
}

// NewConsoleLogger creates a logger writing to w. When w is a file it is
// closed by Close.
func NewConsoleLogger(w io.Writer, opts Options) *ConsoleLogger {
	out := w
	if !opts.JSON {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly}
	}
	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}
	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if opts.Component != "" {
		ctx = ctx.Str("component", opts.Component)
	}
	l := &ConsoleLogger{zl: ctx.Logger()}
	if f, ok := w.(*os.File); ok && f != os.Stdout && f != os.Stderr {
		l.closer = f
	}
	return l
}

// NewFileLogger opens (or creates) path in append mode and logs JSON records to it.
func NewFileLogger(path string, opts Options) (*ConsoleLogger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	opts.JSON = true
	return NewConsoleLogger(f, opts), nil
}

func (c *ConsoleLogger) Debug(format string, args ...interface{}) {
	c.zl.Debug().Msgf(format, args...)
}

func (c *ConsoleLogger) Info(format string, args ...interface{}) {
	c.zl.Info().Msgf(format, args...)
}

func (c *ConsoleLogger) Warning(format string, args ...interface{}) {
	c.zl.Warn().Msgf(format, args...)
}

func (c *ConsoleLogger) Error(format string, args ...interface{}) {
	c.zl.Error().Msgf(format, args...)
}

// Close closes the underlying file, if any.
func (c *ConsoleLogger) Close() error {
	var err error
	c.once.Do(func() {
		if c.closer != nil {
			err = c.closer.Close()
		}
	})
	return err
}

// NopLogger is a logger that discards all messages.
type NopLogger struct{}

// NewNopLogger creates a logger that discards all messages.
func NewNopLogger() *NopLogger {
	return &NopLogger{}
}

func (n *NopLogger) Debug(format string, args ...interface{})   {}
func (n *NopLogger) Info(format string, args ...interface{})    {}
func (n *NopLogger) Warning(format string, args ...interface{}) {}
func (n *NopLogger) Error(format string, args ...interface{})   {}
func (n *NopLogger) Close() error                               { return nil }

// MockLogger records all log calls for verification in tests.
// It is safe for concurrent use.
type MockLogger struct {
	mu           sync.Mutex
	DebugCalls   []string
	InfoCalls    []string
	WarningCalls []string
	ErrorCalls   []string
	CloseCalled  bool
}

// NewMockLogger creates a new MockLogger for testing.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) Debug(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DebugCalls = append(m.DebugCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Info(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.InfoCalls = append(m.InfoCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Warning(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.WarningCalls = append(m.WarningCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Error(format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ErrorCalls = append(m.ErrorCalls, fmt.Sprintf(format, args...))
}

func (m *MockLogger) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// Warnings returns a copy of the recorded warnings.
func (m *MockLogger) Warnings() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.WarningCalls...)
}

// Errors returns a copy of the recorded errors.
func (m *MockLogger) Errors() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.ErrorCalls...)
}

var (
	_ Logger = (*ConsoleLogger)(nil)
	_ Logger = (*NopLogger)(nil)
	_ Logger = (*MockLogger)(nil)
)
