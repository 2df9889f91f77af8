package popup

import (
	"strings"
	"testing"

	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/pkg/schedule"
)

func TestRender(t *testing.T) {
	sched := schedule.Schedule{
		"d_002": {Name: "Review", StartTime: "14:00", EndTime: "15:00", Subtasks: []string{}},
		"d_001": {Name: "Standup", StartTime: "09:00", EndTime: "09:15", Subtasks: []string{"sync"}},
	}
	tests := []struct {
		name    string
		st      State
		want    []string
		notWant []string
	}{
		{
			name: "loading",
			st:   State{View: View{Date: "today", Loading: true}, Prefs: prefs.Default()},
			want: []string{"Loading..."},
		},
		{
			name:    "inline error",
			st:      State{View: View{Date: "today", Err: "Error loading schedule: boom"}, Prefs: prefs.Default()},
			want:    []string{"Error loading schedule: boom"},
			notWant: []string{"Tasks for"},
		},
		{
			name: "tasks",
			st:   State{View: View{Date: "today", Schedule: sched}, Prefs: prefs.Default()},
			want: []string{"Tasks for Today", "Standup", "09:00 - 09:15", "• sync", "Review"},
		},
		{
			name:    "settings hidden when alarm off",
			st:      State{View: View{Date: "2024-01-02"}, Prefs: prefs.Prefs{Volume: 70}},
			want:    []string{"Tasks for 2024-01-02", "Alarm: off"},
			notWant: []string{"Volume: 70"},
		},
		{
			name: "settings shown when alarm on",
			st:   State{View: View{Date: "today"}, Prefs: prefs.Prefs{AlarmEnabled: true, Volume: 70}},
			want: []string{"Alarm: on", "Volume: 70"},
		},
		{
			name: "banners and copy controls",
			st: State{
				View:    View{Mode: ModeCopy, Date: "today"},
				Banners: []Banner{{ID: "1", Kind: BannerError, Text: "copy failed"}},
			},
			want: []string{"copy failed", "Copy yesterday's schedule"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Render(tt.st, RenderOptions{})
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("missing %q in:\n%s", w, out)
				}
			}
			for _, w := range tt.notWant {
				if strings.Contains(out, w) {
					t.Errorf("unexpected %q in:\n%s", w, out)
				}
			}
		})
	}
}

func TestRenderOrdersByStartTime(t *testing.T) {
	st := State{View: View{Date: "today", Schedule: schedule.Schedule{
		"b": {Name: "Late", StartTime: "18:00"},
		"a": {Name: "Early", StartTime: "07:00"},
	}}}
	out := Render(st, RenderOptions{})
	if strings.Index(out, "Early") > strings.Index(out, "Late") {
		t.Fatalf("tasks out of order:\n%s", out)
	}
}
