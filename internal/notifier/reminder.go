package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dayplan/dayplan/pkg/schedule"
)

// Kind tells what moment of a task a reminder is for.
type Kind string

const (
	KindStart    Kind = "start"
	KindUpcoming Kind = "upcoming"
	KindEnding   Kind = "ending"
)

// DefaultLead is the lead time, in minutes, used when a task does not set one.
const DefaultLead = 5

// Reminder is a notification ready for delivery.
type Reminder struct {
	Date      string
	Period    string
	Kind      Kind
	Clock     string
	Title     string
	Body      string
	Priority  int
	SoundType string
	Volume    int
	At        time.Time
}

// Key identifies a reminder for de-duplication.
func (r Reminder) Key() string {
	return strings.Join([]string{r.Date, r.Period, string(r.Kind), r.Clock}, "|")
}

func startReminder(period string, t *schedule.Task) Reminder {
	r := Reminder{
		Period:   period,
		Kind:     KindStart,
		Clock:    t.StartTime,
		Title:    "Time for " + t.Name,
		Body:     t.SubtaskText(),
		Priority: 2,
	}
	if n := t.Notification; n != nil {
		r.SoundType = n.SoundType
		r.Volume = int(n.Volume)
	}
	return r
}

func leadReminder(period string, t *schedule.Task, kind Kind, clock string, gap int) Reminder {
	verb, title := "start", "Upcoming Task - "+period
	if kind == KindEnding {
		verb, title = "end", "Ending Task - "+period
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Task '%s' will %s in %d minutes.", t.Name, verb, gap)
	if len(t.Subtasks) > 0 {
		b.WriteString("\nSubtasks:")
		for _, st := range t.Subtasks {
			b.WriteString("\n- " + st)
		}
	}
	r := Reminder{
		Period:    period,
		Kind:      kind,
		Clock:     clock,
		Title:     title,
		Body:      b.String(),
		Priority:  1,
		SoundType: "default",
		Volume:    50,
	}
	if n := t.Notification; n != nil {
		if n.SoundType != "" {
			r.SoundType = n.SoundType
		}
		if n.Volume > 0 {
			r.Volume = int(n.Volume)
		}
	}
	return r
}

// Due returns the reminders for the minute containing now, in display order.
// A start reminder fires for every task whose start time equals the minute.
// With lead set, tasks whose notification settings are enabled (tasks without
// settings count as enabled) also get "upcoming" and "ending" reminders that
// many minutes before their start and end.
func Due(snap *Snapshot, now time.Time, lead bool) []Reminder {
	clock := schedule.FormatClock(now)
	date := snap.Date
	if schedule.IsToday(date) {
		date = now.Format(schedule.DateLayout)
	}
	var out []Reminder
	for _, period := range snap.Schedule.Keys() {
		t := snap.Schedule[period]
		if t == nil {
			continue
		}
		if t.StartTime == clock {
			out = append(out, startReminder(period, t))
		}
		if !lead || (t.Notification != nil && !t.Notification.Enabled) {
			continue
		}
		gap := DefaultLead
		if t.Notification != nil && t.Notification.ReminderTime > 0 {
			gap = int(t.Notification.ReminderTime)
		}
		if c, err := schedule.ShiftClock(t.StartTime, -gap); err == nil && c == clock {
			out = append(out, leadReminder(period, t, KindUpcoming, c, gap))
		}
		if c, err := schedule.ShiftClock(t.EndTime, -gap); err == nil && c == clock {
			out = append(out, leadReminder(period, t, KindEnding, c, gap))
		}
	}
	for i := range out {
		out[i].Date = date
		out[i].At = now
	}
	return out
}
