package server

import (
	"context"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/dayplan/dayplan/common"
	"github.com/dayplan/dayplan/internal/notifier"
	"github.com/dayplan/dayplan/pkg/logger"
)

// RPCNotifier tracks the jrpc2 servers of connected websocket peers and
// pushes notifications to all of them.
type RPCNotifier struct {
	mu      sync.RWMutex
	servers map[*jrpc2.Server]struct{}
	log     logger.Logger
}

// NewRPCNotifier creates an empty notifier.
func NewRPCNotifier(l logger.Logger) *RPCNotifier {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &RPCNotifier{
		servers: make(map[*jrpc2.Server]struct{}),
		log:     l,
	}
}

func (n *RPCNotifier) Register(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.servers[srv] = struct{}{}
}

func (n *RPCNotifier) Unregister(srv *jrpc2.Server) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.servers, srv)
}

// Broadcast pushes method to every peer. Peers that fail are dropped.
func (n *RPCNotifier) Broadcast(ctx context.Context, method string, params any) {
	n.mu.RLock()
	servers := make([]*jrpc2.Server, 0, len(n.servers))
	for srv := range n.servers {
		servers = append(servers, srv)
	}
	n.mu.RUnlock()

	var failed []*jrpc2.Server
	for _, srv := range servers {
		if err := srv.Notify(ctx, method, params); err != nil {
			n.log.Warning("RPC push failed: %v", err)
			failed = append(failed, srv)
		}
	}
	if len(failed) > 0 {
		n.mu.Lock()
		for _, srv := range failed {
			delete(n.servers, srv)
		}
		n.mu.Unlock()
	}
}

// StopAll disconnects every peer.
func (n *RPCNotifier) StopAll() {
	n.mu.Lock()
	servers := n.servers
	n.servers = make(map[*jrpc2.Server]struct{})
	n.mu.Unlock()
	for srv := range servers {
		srv.Stop()
	}
}

// Count returns the number of connected peers.
func (n *RPCNotifier) Count() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.servers)
}

// Deliver pushes a reminder.fired notification. Having no peers is not an
// error.
func (n *RPCNotifier) Deliver(ctx context.Context, r notifier.Reminder) error {
	n.Broadcast(ctx, common.NotifyReminderFired, ReminderParams(r))
	return nil
}

// ReminderParams converts a reminder to its push payload.
func ReminderParams(r notifier.Reminder) *common.ReminderNotification {
	return &common.ReminderNotification{
		Date:   r.Date,
		Period: r.Period,
		Kind:   string(r.Kind),
		Clock:  r.Clock,
		Title:  r.Title,
		Body:   r.Body,
		At:     r.At,
	}
}

var _ notifier.Sink = (*RPCNotifier)(nil)
