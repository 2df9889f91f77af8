package scheduler

import "time"

// Event is a pending entry in the scheduler heap.
type Event struct {
	// ID identifies the event and is passed to the trigger callback.
	ID string
	// At is the wall-clock time the event fires.
	At time.Time
	// Expr is a cron expression for recurring events. Empty means one-shot.
	Expr string
}

// Trigger is called on the scheduler goroutine when an event fires. at is
// the event's scheduled time, not the time the callback runs.
type Trigger func(id string, at time.Time)
