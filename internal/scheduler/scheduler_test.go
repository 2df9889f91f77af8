package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type firedLog struct {
	mu  sync.Mutex
	ids []string
	ats []time.Time
}

func (f *firedLog) trigger(id string, at time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
	f.ats = append(f.ats, at)
}

func (f *firedLog) count(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.ids {
		if v == id {
			n++
		}
	}
	return n
}

func TestScheduler_AddAndFire(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var log firedLog
	s := New(ctx, log.trigger)
	at := time.Now().Add(100 * time.Millisecond)
	s.Add(Event{ID: "one", At: at})

	time.Sleep(300 * time.Millisecond)

	if log.count("one") != 1 {
		t.Fatal("expected event to fire once")
	}
	log.mu.Lock()
	defer log.mu.Unlock()
	if !log.ats[0].Equal(at) {
		t.Fatalf("callback got %v, want scheduled time %v", log.ats[0], at)
	}
}

func TestScheduler_FiresInOrder(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var log firedLog
	s := New(ctx, log.trigger)
	now := time.Now()
	s.Add(Event{ID: "b", At: now.Add(150 * time.Millisecond)})
	s.Add(Event{ID: "a", At: now.Add(50 * time.Millisecond)})
	s.Add(Event{ID: "c", At: now.Add(250 * time.Millisecond)})

	time.Sleep(500 * time.Millisecond)
	log.mu.Lock()
	defer log.mu.Unlock()
	want := []string{"a", "b", "c"}
	if len(log.ids) != len(want) {
		t.Fatalf("fired %v, want %v", log.ids, want)
	}
	for i := range want {
		if log.ids[i] != want[i] {
			t.Fatalf("fired %v, want %v", log.ids, want)
		}
	}
}

func TestScheduler_ShutdownClosesDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var log firedLog
	s := New(ctx, log.trigger)
	s.Add(Event{ID: "never", At: time.Now().Add(300 * time.Millisecond)})
	cancel()

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
	time.Sleep(400 * time.Millisecond)
	if log.count("never") != 0 {
		t.Fatal("event fired after shutdown")
	}
	// Add must not block once the context is done.
	s.Add(Event{ID: "x", At: time.Now()})
}

func TestRearm(t *testing.T) {
	at := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

	if _, ok := rearm(Event{ID: "once", At: at}, at); ok {
		t.Fatal("one-shot event must not re-arm")
	}

	next, ok := rearm(Event{ID: "poll", At: at, Expr: "* * * * *"}, at.Add(time.Second))
	if !ok {
		t.Fatal("expected recurring event to re-arm")
	}
	if want := at.Add(time.Minute); !next.At.Equal(want) {
		t.Fatalf("next = %v, want %v", next.At, want)
	}

	// A long stall skips the missed minutes instead of replaying them.
	next, _ = rearm(Event{ID: "poll", At: at, Expr: "* * * * *"}, at.Add(10*time.Minute+time.Second))
	if want := at.Add(11 * time.Minute); !next.At.Equal(want) {
		t.Fatalf("next after stall = %v, want %v", next.At, want)
	}
}

func TestNextTick(t *testing.T) {
	from := time.Date(2024, 1, 10, 9, 0, 30, 0, time.UTC)
	got, err := NextTick("* * * * *", from)
	if err != nil {
		t.Fatal(err)
	}
	if want := time.Date(2024, 1, 10, 9, 1, 0, 0, time.UTC); !got.Equal(want) {
		t.Fatalf("NextTick = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	from := time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		expr string
		ok   bool
	}{
		{"* * * * *", true},
		{"*/5 8-18 * * 1-5", true},
		{"", false},
		{"* * * *", false},
		{"0 * * * * *", false},
		{"61 * * * *", false},
		{"not a cron", false},
	}
	for _, tt := range tests {
		err := Validate(tt.expr, from)
		if tt.ok && err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", tt.expr, err)
		}
		if !tt.ok && !errors.Is(err, ErrInvalidExpr) {
			t.Errorf("Validate(%q) = %v, want ErrInvalidExpr", tt.expr, err)
		}
	}
}
