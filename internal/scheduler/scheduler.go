package scheduler

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/adhocore/gronx"
)

const maxSleepCap = 60 * time.Second

// ErrInvalidExpr is returned for cron expressions gronx cannot parse or that
// never fire within a year.
var ErrInvalidExpr = errors.New("invalid cron expression")

// Scheduler fires Events from a single background goroutine.
type Scheduler struct {
	addChan chan Event
	ctx     context.Context
	done    chan struct{}
}

// New starts a scheduler whose goroutine exits when ctx is cancelled.
func New(ctx context.Context, onTrigger Trigger) *Scheduler {
	s := &Scheduler{
		addChan: make(chan Event, 64),
		ctx:     ctx,
		done:    make(chan struct{}),
	}
	go s.run(onTrigger)
	return s
}

// Add enqueues an event.
func (s *Scheduler) Add(event Event) {
	select {
	case s.addChan <- event:
	case <-s.ctx.Done():
	}
}

// Every schedules a recurring event for expr, first firing at its next
// occurrence after now.
func (s *Scheduler) Every(id, expr string) error {
	next, err := NextTick(expr, time.Now())
	if err != nil {
		return err
	}
	s.Add(Event{ID: id, At: next, Expr: expr})
	return nil
}

// Done is closed once the scheduler goroutine has returned.
func (s *Scheduler) Done() <-chan struct{} {
	return s.done
}

func (s *Scheduler) run(onTrigger Trigger) {
	defer close(s.done)
	h := &eventHeap{}
	heap.Init(h)

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	resetTimer := func() <-chan time.Time {
		if timer != nil {
			timer.Stop()
		}
		if h.Len() == 0 {
			return nil
		}
		dur := time.Until((*h)[0].At)
		if dur > maxSleepCap {
			dur = maxSleepCap
		}
		if dur < 0 {
			dur = 0
		}
		timer = time.NewTimer(dur)
		return timer.C
	}

	timerCh := resetTimer()

	for {
		select {
		case <-s.ctx.Done():
			return

		case event := <-s.addChan:
			heapPush(h, event)
			timerCh = resetTimer()

		case <-timerCh:
			now := time.Now()
			for h.Len() > 0 && !(*h)[0].At.After(now) {
				event := heapPop(h)
				onTrigger(event.ID, event.At)
				if next, ok := rearm(event, time.Now()); ok {
					heapPush(h, next)
				}
			}
			timerCh = resetTimer()
		}
	}
}

// rearm returns the follow-up of a recurring event. Occurrences missed while
// the callback ran (or the machine slept) are skipped rather than replayed.
func rearm(e Event, now time.Time) (Event, bool) {
	if e.Expr == "" {
		return Event{}, false
	}
	ref := e.At
	if now.After(ref) {
		ref = now
	}
	next, err := gronx.NextTickAfter(e.Expr, ref, false)
	if err != nil {
		return Event{}, false
	}
	return Event{ID: e.ID, At: next, Expr: e.Expr}, true
}

// NextTick returns the first occurrence of expr strictly after after.
func NextTick(expr string, after time.Time) (time.Time, error) {
	if err := Validate(expr, after); err != nil {
		return time.Time{}, err
	}
	return gronx.NextTickAfter(expr, after, false)
}

// Validate checks that expr is a 5-field cron expression that fires at
// least once within a year of from.
func Validate(expr string, from time.Time) error {
	if len(strings.Fields(expr)) != 5 || !gronx.IsValid(expr) {
		return fmt.Errorf("%w: %q", ErrInvalidExpr, expr)
	}
	next, err := gronx.NextTickAfter(expr, from, false)
	if err != nil || !next.Before(from.Add(365*24*time.Hour)) {
		return fmt.Errorf("%w: %q never fires", ErrInvalidExpr, expr)
	}
	return nil
}
