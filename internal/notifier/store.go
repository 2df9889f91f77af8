package notifier

import (
	"sync/atomic"
	"time"

	"github.com/dayplan/dayplan/pkg/schedule"
)

// Snapshot is the schedule the notifier matches against between fetches.
// It must not be modified once published to a Store.
type Snapshot struct {
	// Date is the requested date; empty means the service's current day.
	Date      string
	Schedule  schedule.Schedule
	FetchedAt time.Time
	// Seq orders snapshots by the refresh that produced them.
	Seq uint64
}

var emptySnapshot = &Snapshot{Schedule: schedule.Schedule{}}

// Store holds the current Snapshot. Readers always see a complete snapshot,
// either the one before or the one after a replace.
type Store struct {
	p atomic.Pointer[Snapshot]
}

// Load returns the current snapshot, or an empty one before the first fetch.
func (s *Store) Load() *Snapshot {
	if snap := s.p.Load(); snap != nil {
		return snap
	}
	return emptySnapshot
}

// Replace publishes snap wholesale. A snapshot whose Seq is older than the
// published one is discarded and Replace reports false.
func (s *Store) Replace(snap *Snapshot) bool {
	for {
		old := s.p.Load()
		if old != nil && old.Seq > snap.Seq {
			return false
		}
		if s.p.CompareAndSwap(old, snap) {
			return true
		}
	}
}
