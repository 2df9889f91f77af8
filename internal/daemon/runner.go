// Package daemon runs the dayplan background process: it owns the RPC
// listener and drives start, stop and graceful shutdown.
package daemon

import (
	"context"
	"errors"
	"net"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrAlreadyRunning is returned when Start is called on a running daemon.
	ErrAlreadyRunning = errors.New("daemon is already running")

	// ErrNotRunning is returned when Shutdown is called on a stopped daemon.
	ErrNotRunning = errors.New("daemon is not running")

	// ErrShutdownTimeout is returned when shutdown exceeds the configured timeout.
	ErrShutdownTimeout = errors.New("shutdown timed out")
)

// DefaultHost keeps the RPC endpoint on loopback.
const DefaultHost = "127.0.0.1"

// Config holds the configuration for the daemon runner.
type Config struct {
	// Host to bind. Defaults to DefaultHost.
	Host string

	// Port is the RPC port. Use 0 for an ephemeral port.
	Port int

	// ShutdownTimeout bounds ShutdownFunc. Zero means no timeout.
	ShutdownTimeout time.Duration
}

// Dependencies are injected for testing.
type Dependencies struct {
	// ListenerFactory creates network listeners. Defaults to net.Listen.
	ListenerFactory func(network, address string) (net.Listener, error)

	// Serve handles connections on the listener until it is closed.
	// If nil, the listener is held open without serving.
	Serve func(net.Listener) error

	// ShutdownFunc releases resources during Shutdown.
	ShutdownFunc func() error
}

// Runner manages the daemon lifecycle.
type Runner struct {
	config   *Config
	deps     *Dependencies
	running  bool
	mu       sync.Mutex
	cancel   context.CancelFunc
	listener net.Listener
}

// New creates a runner. Nil arguments select defaults.
func New(config *Config, deps *Dependencies) *Runner {
	if config == nil {
		config = &Config{}
	}
	if config.Host == "" {
		config.Host = DefaultHost
	}
	if deps == nil {
		deps = &Dependencies{}
	}
	if deps.ListenerFactory == nil {
		deps.ListenerFactory = net.Listen
	}
	return &Runner{config: config, deps: deps}
}

// Config returns the runner's configuration.
func (r *Runner) Config() *Config {
	return r.config
}

// Addr returns the bound address while running, nil otherwise.
func (r *Runner) Addr() net.Addr {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listener == nil {
		return nil
	}
	return r.listener.Addr()
}

// Start binds the listener, serves on it and blocks until ctx is cancelled,
// Shutdown is called or serving fails.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return ErrAlreadyRunning
	}
	ctx, r.cancel = context.WithCancel(ctx)

	listener, err := r.deps.ListenerFactory("tcp", listenAddress(r.config.Host, r.config.Port))
	if err != nil {
		r.cancel()
		r.mu.Unlock()
		return err
	}
	r.listener = listener
	r.running = true
	r.mu.Unlock()

	serveErr := make(chan error, 1)
	if r.deps.Serve != nil {
		go func() { serveErr <- r.deps.Serve(listener) }()
	}

	var result error
	select {
	case <-ctx.Done():
		result = ctx.Err()
	case err := <-serveErr:
		result = err
		if result == nil {
			result = ctx.Err()
		}
	}
	r.cleanupOnStop()
	return result
}

func listenAddress(host string, port int) string {
	if port < 0 {
		port = 0
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}

func (r *Runner) cleanupOnStop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	r.closeListener()
}

// closeListener must be called with r.mu held. Close errors are ignored.
func (r *Runner) closeListener() {
	if r.listener != nil {
		_ = r.listener.Close()
		r.listener = nil
	}
}

// Shutdown runs ShutdownFunc (bounded by ShutdownTimeout) and stops Start.
func (r *Runner) Shutdown() error {
	if !r.IsRunning() {
		return ErrNotRunning
	}
	if err := r.executeShutdownFunc(); err != nil {
		return err
	}
	r.stop()
	return nil
}

func (r *Runner) executeShutdownFunc() error {
	if r.deps.ShutdownFunc == nil {
		return nil
	}
	if r.config.ShutdownTimeout <= 0 {
		// Shutdown proceeds regardless of cleanup errors.
		_ = r.deps.ShutdownFunc()
		return nil
	}
	done := make(chan error, 1)
	go func() {
		done <- r.deps.ShutdownFunc()
	}()
	select {
	case err := <-done:
		if err != nil {
			r.stop()
		}
		return err
	case <-time.After(r.config.ShutdownTimeout):
		r.stop()
		return ErrShutdownTimeout
	}
}

func (r *Runner) stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	if r.cancel != nil {
		r.cancel()
	}
	r.closeListener()
}

// IsRunning reports whether Start is active.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}
