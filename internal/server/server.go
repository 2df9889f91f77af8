// Package server exposes the daemon over JSON-RPC 2.0 on a loopback port:
// plain HTTP POSTs on /jsonrpc and a push-capable websocket on /jsonrpc/ws.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/hashicorp/go-multierror"
)

// Server is the daemon's HTTP front end.
type Server struct {
	rpc  *RPCServer
	http *http.Server
	log  logger.Logger
}

// NewServer wires the RPC endpoints behind bearer authentication.
func NewServer(rpc *RPCServer, l logger.Logger) *Server {
	if l == nil {
		l = logger.NewNopLogger()
	}
	s := &Server{rpc: rpc, log: l}
	s.http = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routing table. /health is unauthenticated so callers
// can probe for a running daemon without the token.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle(common.RPCPath, requireToken(s.rpc.cfg.Secret, s.rpc.bridge))
	mux.Handle(common.RPCWSPath, requireToken(s.rpc.cfg.Secret, http.HandlerFunc(s.rpc.serveWS)))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":  "running",
			"version": s.rpc.cfg.Version,
		})
	})
	return mux
}

// Serve accepts connections on l until Shutdown.
func (s *Server) Serve(l net.Listener) error {
	s.log.Info("RPC listening on %s", l.Addr())
	err := s.http.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones and closes the
// RPC bridge. Websocket peers are disconnected.
func (s *Server) Shutdown(ctx context.Context) error {
	var result *multierror.Error
	s.rpc.notifier.StopAll()
	if err := s.http.Shutdown(ctx); err != nil {
		result = multierror.Append(result, err)
		_ = s.http.Close()
	}
	if err := s.rpc.Close(); err != nil {
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}
