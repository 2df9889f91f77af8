// Package notifier keeps the daemon's schedule snapshot and turns it into
// reminders once a minute.
package notifier

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dayplan/dayplan/internal/scheduler"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/dayplan/dayplan/pkg/schedule"
)

const pollEventID = "schedule-poll"

// Fetcher loads a day's schedule. *schedapi.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, date string) (schedule.Schedule, error)
}

// Options configures a Notifier.
type Options struct {
	// Date to follow; empty follows the service's current day.
	Date string
	// Lead enables upcoming/ending reminders ahead of task boundaries.
	Lead bool
	// PollExpr is the cron expression for ticks. Defaults to every minute.
	PollExpr string
	// Recorder, when set, de-duplicates deliveries across restarts.
	Recorder Recorder
	Log      logger.Logger
}

// Status describes the notifier for the status RPC.
type Status struct {
	Date       string
	Tasks      int
	FetchedAt  time.Time
	LastError  string
	LastTick   time.Time
	Refreshing int
}

// Notifier owns the schedule snapshot. Refreshes replace it wholesale; ticks
// read it without locking.
type Notifier struct {
	fetch Fetcher
	sink  Sink
	opts  Options
	log   logger.Logger
	store Store
	seq   atomic.Uint64
	wg    sync.WaitGroup

	mu         sync.Mutex
	baseCtx    context.Context
	lastErr    error
	lastTick   time.Time
	refreshing int
	stopped    bool
	firedMin   string
	fired      map[string]struct{}
}

// New creates a notifier. Nothing is fetched until Run or Refresh.
func New(fetch Fetcher, sink Sink, opts Options) *Notifier {
	if opts.PollExpr == "" {
		opts.PollExpr = "* * * * *"
	}
	l := opts.Log
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Notifier{
		fetch:   fetch,
		sink:    sink,
		opts:    opts,
		log:     l,
		baseCtx: context.Background(),
		fired:   make(map[string]struct{}),
	}
}

// Snapshot returns the current snapshot.
func (n *Notifier) Snapshot() *Snapshot {
	return n.store.Load()
}

// Refresh fetches the schedule and replaces the snapshot. On failure the
// previous snapshot stays in place and the error is returned.
func (n *Notifier) Refresh(ctx context.Context) error {
	seq := n.seq.Add(1)
	n.mu.Lock()
	n.refreshing++
	n.mu.Unlock()
	defer func() {
		n.mu.Lock()
		n.refreshing--
		n.mu.Unlock()
	}()

	s, err := n.fetch.Fetch(ctx, n.opts.Date)
	n.mu.Lock()
	defer n.mu.Unlock()
	if err != nil {
		n.lastErr = err
		return err
	}
	snap := &Snapshot{Date: n.opts.Date, Schedule: s, FetchedAt: time.Now(), Seq: seq}
	if !n.store.Replace(snap) {
		n.log.Debug("discarding schedule from superseded refresh #%d", seq)
		return nil
	}
	n.lastErr = nil
	n.log.Info("schedule refreshed: %d tasks", len(s))
	return nil
}

// RequestRefresh starts a refresh in the background and returns at once.
// Failures are logged; Wait or Run's shutdown waits for it to finish.
// Requests arriving after Run has begun shutting down are dropped.
func (n *Notifier) RequestRefresh() {
	n.mu.Lock()
	if n.stopped {
		n.mu.Unlock()
		n.log.Debug("notifier stopped, ignoring refresh request")
		return
	}
	ctx := n.baseCtx
	n.wg.Add(1)
	n.mu.Unlock()
	go func() {
		defer n.wg.Done()
		if err := n.Refresh(ctx); err != nil {
			n.log.Warning("schedule refresh failed: %v", err)
		}
	}()
}

// Wait blocks until all background refreshes have finished.
func (n *Notifier) Wait() {
	n.wg.Wait()
}

// Tick delivers the reminders due in now's minute and returns them. A
// reminder is delivered at most once per minute, however often Tick runs.
func (n *Notifier) Tick(ctx context.Context, now time.Time) []Reminder {
	due := Due(n.store.Load(), now, n.opts.Lead)

	n.mu.Lock()
	n.lastTick = now
	minute := now.Format("2006-01-02 15:04")
	if minute != n.firedMin {
		n.firedMin = minute
		n.fired = make(map[string]struct{})
	}
	fresh := due[:0]
	for _, r := range due {
		if _, ok := n.fired[r.Key()]; ok {
			continue
		}
		n.fired[r.Key()] = struct{}{}
		fresh = append(fresh, r)
	}
	n.mu.Unlock()

	var delivered []Reminder
	for _, r := range fresh {
		recorded := false
		if n.opts.Recorder != nil {
			first, err := n.opts.Recorder.Record(ctx, r)
			if err != nil {
				n.log.Warning("record reminder %s: %v", r.Key(), err)
			} else if !first {
				n.log.Debug("reminder %s already delivered", r.Key())
				continue
			}
			recorded = err == nil
		}
		if err := n.sink.Deliver(ctx, r); err != nil {
			n.log.Error("deliver %q: %v", r.Title, err)
			if recorded {
				if err := n.opts.Recorder.Forget(ctx, r); err != nil {
					n.log.Warning("forget reminder %s: %v", r.Key(), err)
				}
			}
			continue
		}
		n.log.Info("delivered %s reminder for %s at %s", r.Kind, r.Period, r.Clock)
		delivered = append(delivered, r)
	}
	return delivered
}

// Run fetches the schedule, then ticks on the poll expression until ctx is
// cancelled. It returns after in-flight refreshes have completed.
func (n *Notifier) Run(ctx context.Context) error {
	if err := scheduler.Validate(n.opts.PollExpr, time.Now()); err != nil {
		return err
	}
	n.mu.Lock()
	n.baseCtx = ctx
	n.mu.Unlock()

	n.RequestRefresh()
	sched := scheduler.New(ctx, func(id string, at time.Time) {
		if id == pollEventID {
			n.Tick(ctx, at)
		}
	})
	if err := sched.Every(pollEventID, n.opts.PollExpr); err != nil {
		return err
	}
	n.log.Info("notifier polling on %q", n.opts.PollExpr)
	<-ctx.Done()
	<-sched.Done()
	n.mu.Lock()
	n.stopped = true
	n.mu.Unlock()
	n.Wait()
	return nil
}

// Status reports the snapshot and refresh state.
func (n *Notifier) Status() Status {
	snap := n.store.Load()
	n.mu.Lock()
	defer n.mu.Unlock()
	st := Status{
		Date:       schedule.DisplayDate(n.opts.Date),
		Tasks:      len(snap.Schedule),
		FetchedAt:  snap.FetchedAt,
		LastTick:   n.lastTick,
		Refreshing: n.refreshing,
	}
	if n.lastErr != nil {
		st.LastError = n.lastErr.Error()
	}
	return st
}
