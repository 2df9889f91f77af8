package common

import "time"

// JSON-RPC method names served by the daemon.
const (
	MethodVersion  = "system.getVersion"
	MethodRefresh  = "schedule.refresh"
	MethodStatus   = "schedule.status"
	MethodSnapshot = "schedule.snapshot"

	// NotifyReminderFired is pushed to websocket peers when a reminder is delivered.
	NotifyReminderFired = "reminder.fired"
)

// HTTP paths of the daemon RPC endpoint.
const (
	RPCPath   = "/jsonrpc"
	RPCWSPath = "/jsonrpc/ws"
)

const (
	// DefaultServerURL is where the schedule service listens by default.
	DefaultServerURL = "http://localhost:5000"

	// DefaultRPCPort is the loopback port of the daemon RPC endpoint.
	DefaultRPCPort = 5051

	// DefaultPollExpr fires the notifier once a minute, on the minute.
	DefaultPollExpr = "* * * * *"

	// BannerTTL is how long transient popup banners stay visible.
	BannerTTL = 3 * time.Second
)
