package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dayplan/dayplan/internal/notifier"
)

func openTemp(t *testing.T) *Log {
	t.Helper()
	l, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { l.Close() })
	return l
}

func reminder(period, clock string, at time.Time) notifier.Reminder {
	return notifier.Reminder{
		Date:   "2024-01-10",
		Period: period,
		Kind:   notifier.KindStart,
		Clock:  clock,
		Title:  "Time for " + period,
		Body:   "sync\nplan",
		At:     at,
	}
}

func TestRecordDeduplicates(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	now := time.Now()

	first, err := l.Record(ctx, reminder("standup", "09:00", now))
	if err != nil || !first {
		t.Fatalf("first Record = %v, %v", first, err)
	}
	again, err := l.Record(ctx, reminder("standup", "09:00", now.Add(time.Second)))
	if err != nil || again {
		t.Fatalf("repeat Record = %v, %v", again, err)
	}
	other, err := l.Record(ctx, reminder("standup", "09:01", now))
	if err != nil || !other {
		t.Fatalf("different clock should record, got %v, %v", other, err)
	}
}

func TestRecentNewestFirst(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	for i, p := range []string{"a", "b", "c"} {
		if _, err := l.Record(ctx, reminder(p, "09:00", base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatal(err)
		}
	}
	got, err := l.Recent(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].Period != "c" || got[1].Period != "b" {
		t.Fatalf("unexpected entries %+v", got)
	}
	if got[0].Body != "sync\nplan" || !got[0].DeliveredAt.Equal(base.Add(2*time.Minute)) {
		t.Fatalf("entry fields not preserved: %+v", got[0])
	}
}

func TestPrune(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	l.Record(ctx, reminder("old", "08:00", base.Add(-48*time.Hour)))
	l.Record(ctx, reminder("new", "09:00", base))

	n, err := l.Prune(ctx, base.Add(-24*time.Hour))
	if err != nil || n != 1 {
		t.Fatalf("Prune = %d, %v", n, err)
	}
	got, _ := l.Recent(ctx, 10)
	if len(got) != 1 || got[0].Period != "new" {
		t.Fatalf("unexpected entries after prune %+v", got)
	}
}

func TestReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	r := reminder("standup", "09:00", time.Now())
	if _, err := l.Record(context.Background(), r); err != nil {
		t.Fatal(err)
	}
	l.Close()

	l2, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer l2.Close()
	fresh, err := l2.Record(context.Background(), r)
	if err != nil || fresh {
		t.Fatalf("record after reopen = %v, %v; want duplicate", fresh, err)
	}
}

func TestForgetAllowsRerecord(t *testing.T) {
	l := openTemp(t)
	ctx := context.Background()
	r := reminder("standup", "09:00", time.Now())
	if _, err := l.Record(ctx, r); err != nil {
		t.Fatal(err)
	}
	if err := l.Forget(ctx, r); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	if got, _ := l.Recent(ctx, 10); len(got) != 0 {
		t.Fatalf("forgotten reminder still listed: %+v", got)
	}
	fresh, err := l.Record(ctx, r)
	if err != nil || !fresh {
		t.Fatalf("record after forget = %v, %v; want new", fresh, err)
	}
}
