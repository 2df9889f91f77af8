package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/notifier"
	"github.com/dayplan/dayplan/pkg/logger"
)

// Service is the part of the notifier the RPC methods drive.
type Service interface {
	RequestRefresh()
	Status() notifier.Status
	Snapshot() *notifier.Snapshot
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // bearer token; empty rejects every request
	Version   string
	Commit    string
	BuildType string
	ServerURL string // schedule service, reported by schedule.status
}

// RPCServer holds the method table shared by the HTTP bridge and the
// websocket endpoint.
type RPCServer struct {
	cfg      RPCConfig
	svc      Service
	methods  handler.Map
	bridge   jhttp.Bridge
	notifier *RPCNotifier
	log      logger.Logger
	closeErr error
	once     sync.Once
}

// NewRPCServer builds the method table and HTTP bridge.
func NewRPCServer(cfg *RPCConfig, svc Service, n *RPCNotifier, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	if n == nil {
		n = NewRPCNotifier(l)
	}
	rs := &RPCServer{
		cfg:      *cfg,
		svc:      svc,
		notifier: n,
		log:      l,
	}
	rs.methods = handler.Map{
		common.MethodVersion:  handler.New(rs.systemGetVersion),
		common.MethodRefresh:  handler.New(rs.scheduleRefresh),
		common.MethodStatus:   handler.New(rs.scheduleStatus),
		common.MethodSnapshot: handler.New(rs.scheduleSnapshot),
	}
	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

// Notifier returns the push notifier for websocket peers.
func (rs *RPCServer) Notifier() *RPCNotifier {
	return rs.notifier
}

// Close shuts down the HTTP bridge. Later calls return the first result.
func (rs *RPCServer) Close() error {
	rs.once.Do(func() {
		rs.closeErr = rs.bridge.Close()
	})
	return rs.closeErr
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*common.VersionResult, error) {
	return &common.VersionResult{
		Version:   rs.cfg.Version,
		Commit:    rs.cfg.Commit,
		BuildType: rs.cfg.BuildType,
	}, nil
}

// scheduleRefresh queues a refresh and returns without waiting for it.
func (rs *RPCServer) scheduleRefresh(_ context.Context) (*common.RefreshResult, error) {
	if rs.svc == nil {
		return nil, &jrpc2.Error{Code: jrpc2.InternalError, Message: "notifier not running"}
	}
	rs.svc.RequestRefresh()
	return &common.RefreshResult{Queued: true}, nil
}

func (rs *RPCServer) scheduleStatus(_ context.Context) (*common.StatusResult, error) {
	if rs.svc == nil {
		return nil, &jrpc2.Error{Code: jrpc2.InternalError, Message: "notifier not running"}
	}
	st := rs.svc.Status()
	return &common.StatusResult{
		Date:       st.Date,
		Tasks:      st.Tasks,
		FetchedAt:  st.FetchedAt,
		LastError:  st.LastError,
		LastTick:   st.LastTick,
		Refreshing: st.Refreshing > 0,
		ServerURL:  rs.cfg.ServerURL,
	}, nil
}

func (rs *RPCServer) scheduleSnapshot(_ context.Context) (*common.SnapshotResult, error) {
	if rs.svc == nil {
		return nil, &jrpc2.Error{Code: jrpc2.InternalError, Message: "notifier not running"}
	}
	snap := rs.svc.Snapshot()
	return &common.SnapshotResult{
		FetchedAt: snap.FetchedAt,
		Schedule:  snap.Schedule,
	}, nil
}
