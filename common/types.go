package common

import (
	"time"

	"github.com/dayplan/dayplan/pkg/schedule"
)

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// RefreshResult acknowledges that a refresh was scheduled. It does not wait
// for the fetch to finish.
type RefreshResult struct {
	Queued bool `json:"queued"`
}

// StatusResult is the response for schedule.status.
type StatusResult struct {
	Date       string    `json:"date"`
	Tasks      int       `json:"tasks"`
	FetchedAt  time.Time `json:"fetchedAt,omitempty"`
	LastError  string    `json:"lastError,omitempty"`
	LastTick   time.Time `json:"lastTick,omitempty"`
	Refreshing bool      `json:"refreshing"`
	ServerURL  string    `json:"serverUrl"`
}

// SnapshotResult is the response for schedule.snapshot.
type SnapshotResult struct {
	FetchedAt time.Time         `json:"fetchedAt,omitempty"`
	Schedule  schedule.Schedule `json:"schedule"`
}

// ReminderNotification is the params of a reminder.fired push.
type ReminderNotification struct {
	Date   string    `json:"date"`
	Period string    `json:"period"`
	Kind   string    `json:"kind"`
	Clock  string    `json:"clock"`
	Title  string    `json:"title"`
	Body   string    `json:"body"`
	At     time.Time `json:"at"`
}
