// Package schedule defines the day schedule exchanged with the schedule
// service: tasks keyed by period, their notification settings and the clock
// and date formats both sides agree on.
package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Task is a scheduled activity within one day.
type Task struct {
	Name         string        `json:"name"`
	StartTime    string        `json:"start_time"`
	EndTime      string        `json:"end_time"`
	Subtasks     []string      `json:"subtasks"`
	Notification *Notification `json:"notification,omitempty"`
}

// Notification holds the per-task alarm settings.
type Notification struct {
	Enabled      bool     `json:"enabled"`
	SoundType    string   `json:"sound_type,omitempty"`
	Volume       LooseInt `json:"volume"`
	ReminderTime LooseInt `json:"reminder_time"`
}

// LooseInt decodes from a JSON number or a numeric string. Browser forms
// submit numeric inputs as strings, so both shapes reach the service.
type LooseInt int

func (n *LooseInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*n = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*n = 0
			return nil
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("invalid integer %q", s)
		}
		*n = LooseInt(v)
		return nil
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = LooseInt(v)
	return nil
}

// SubtaskText returns the subtasks joined by newlines, the body used for
// desktop notifications.
func (t *Task) SubtaskText() string {
	return strings.Join(t.Subtasks, "\n")
}

// Schedule maps a period key to its task for a single calendar date.
type Schedule map[string]*Task

// Keys returns the period keys in display order: by start time, then by key.
// Map order carries no meaning, so any stable order is acceptable.
func (s Schedule) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := s[keys[i]], s[keys[j]]
		if a != nil && b != nil && a.StartTime != b.StartTime {
			return a.StartTime < b.StartTime
		}
		return keys[i] < keys[j]
	})
	return keys
}

// Clone returns a deep copy of the schedule.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for k, t := range s {
		if t == nil {
			continue
		}
		c := *t
		c.Subtasks = append(make([]string, 0, len(t.Subtasks)), t.Subtasks...)
		if t.Notification != nil {
			n := *t.Notification
			c.Notification = &n
		}
		out[k] = &c
	}
	return out
}

// InvalidTaskError reports a task whose times could not be normalized.
type InvalidTaskError struct {
	Period string
	Field  string
	Value  string
}

func (e *InvalidTaskError) Error() string {
	return fmt.Sprintf("task %q: invalid %s %q", e.Period, e.Field, e.Value)
}

// Normalize rewrites every task's start and end time into canonical "HH:MM"
// form. Values that cannot be parsed are left untouched and reported; such
// tasks never match a clock reading.
func (s Schedule) Normalize() []error {
	var errs []error
	for _, period := range s.Keys() {
		t := s[period]
		if t == nil {
			delete(s, period)
			continue
		}
		if v, err := NormalizeClock(t.StartTime); err == nil {
			t.StartTime = v
		} else {
			errs = append(errs, &InvalidTaskError{period, "start_time", t.StartTime})
		}
		if v, err := NormalizeClock(t.EndTime); err == nil {
			t.EndTime = v
		} else if t.EndTime != "" {
			errs = append(errs, &InvalidTaskError{period, "end_time", t.EndTime})
		}
		if t.Subtasks == nil {
			t.Subtasks = []string{}
		}
	}
	return errs
}

// NewTaskRequest is the add-task payload.
type NewTaskRequest struct {
	Name         string       `json:"name"`
	Date         string       `json:"date"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Subtasks     []string     `json:"subtasks"`
	Notification Notification `json:"notification"`
}

// SplitSubtasks splits free text into subtask lines, dropping blank ones.
// Kept lines are not otherwise altered.
func SplitSubtasks(text string) []string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		l = strings.TrimSuffix(l, "\r")
		if strings.TrimSpace(l) == "" {
			continue
		}
		out = append(out, l)
	}
	return out
}
