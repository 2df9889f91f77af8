package popup

import (
	"context"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dayplan/dayplan/pkg/schedapi/schedapitest"
	"github.com/dayplan/dayplan/pkg/schedule"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// send feeds a key to the model and runs any resulting command inline.
func send(m *Model, s string) {
	_, cmd := m.Update(keyMsg(s))
	drain(m, cmd)
}

func drain(m *Model, cmd tea.Cmd) {
	if cmd == nil {
		return
	}
	switch msg := cmd().(type) {
	case fetchedMsg, opDoneMsg:
		m.Update(msg)
	case bannerMsg:
		m.Update(msg)
	}
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestModelAddAndDelete(t *testing.T) {
	srv := newServer(t, "2024-01-10")
	c, _ := newController(t, srv, Options{Now: func() time.Time {
		return time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	}})
	ctx := context.Background()
	c.Open(ctx)
	m := NewModel(ctx, c)

	send(m, "a")
	for _, v := range []string{"Standup", "", "09:00", "09:15", "sync", "", ""} {
		typeText(m, v)
		send(m, "enter")
	}
	if m.state != stateBrowse {
		t.Fatalf("form not closed, state %d", m.state)
	}
	v := c.View()
	if len(v.Schedule) != 1 {
		t.Fatalf("schedule after add = %v", v.Schedule)
	}
	if len(srv.Day("")) != 0 || len(srv.Day("2024-01-10")) != 1 {
		t.Fatal("blank date was not sent as the current day")
	}
	for _, task := range v.Schedule {
		if task.Name != "Standup" || len(task.Subtasks) != 1 {
			t.Fatalf("task = %+v", task)
		}
		if task.Notification == nil || task.Notification.ReminderTime != 5 {
			t.Fatalf("notification = %+v", task.Notification)
		}
	}

	send(m, "x")
	if m.state != stateConfirm {
		t.Fatal("delete did not ask for confirmation")
	}
	send(m, "n")
	if len(srv.Day("2024-01-10")) != 1 {
		t.Fatal("declined delete removed the task")
	}
	send(m, "x")
	send(m, "y")
	if len(srv.Day("2024-01-10")) != 0 {
		t.Fatal("task not deleted")
	}
}

func TestModelAlertOnAddFailure(t *testing.T) {
	srv := newServer(t, "d")
	c, _ := newController(t, srv, Options{})
	m := NewModel(context.Background(), c)
	send(m, "a")
	for i := 0; i < stepCount; i++ {
		send(m, "enter")
	}
	if m.alert != "Error adding task: Missing required fields" {
		t.Fatalf("alert = %q", m.alert)
	}
	send(m, "q")
	if m.alert != "" || m.quitting {
		t.Fatal("first key should only dismiss the alert")
	}
}

func TestModelPreferenceKeys(t *testing.T) {
	srv := newServer(t, "d")
	c, _ := newController(t, srv, Options{})
	m := NewModel(context.Background(), c)
	send(m, "A")
	send(m, "+")
	send(m, "+")
	send(m, "-")
	if p := c.Prefs(); !p.AlarmEnabled || p.Volume != 55 {
		t.Fatalf("prefs = %+v", p)
	}
}

func TestModelDateAndModes(t *testing.T) {
	srv := newServer(t, "d")
	srv.Put("2024-02-01", schedule.Task{Name: "Dentist", StartTime: "10:00", EndTime: "11:00"})
	c, _ := newController(t, srv, Options{})
	m := NewModel(context.Background(), c)

	send(m, "d")
	typeText(m, "2024-02-01")
	send(m, "enter")
	v := c.View()
	if v.Mode != ModeCustomDate || v.Date != "2024-02-01" || len(v.Schedule) != 1 {
		t.Fatalf("view = %+v", v)
	}
	send(m, "c")
	if c.View().Mode != ModeCopy {
		t.Fatal("copy mode not selected")
	}
	send(m, "t")
	if v := c.View(); v.Mode != ModeToday || v.Date != schedule.Today {
		t.Fatalf("view = %+v", v)
	}
}

func newCopyModel(t *testing.T) (*Model, *Controller, *schedapitest.Server) {
	t.Helper()
	srv := newServer(t, "10-01-2024")
	srv.Put("09-01-2024", schedule.Task{Name: "Standup", StartTime: "09:00", EndTime: "09:15"})
	srv.Put("09-01-2024", schedule.Task{Name: "Review", StartTime: "14:00", EndTime: "15:00"})
	for i := 0; i < 5; i++ {
		srv.Put("2024-02-01", schedule.Task{
			Name:      fmt.Sprintf("Block %d", i),
			StartTime: fmt.Sprintf("%02d:00", 9+i),
			EndTime:   fmt.Sprintf("%02d:30", 9+i),
		})
	}
	c, _ := newController(t, srv, Options{Now: func() time.Time {
		return time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	}})
	return NewModel(context.Background(), c), c, srv
}

func TestModelCopyClampsSelection(t *testing.T) {
	m, c, _ := newCopyModel(t)

	send(m, "d")
	typeText(m, "2024-02-01")
	send(m, "enter")
	for i := 0; i < 4; i++ {
		send(m, "j")
	}
	if m.selected != 4 {
		t.Fatalf("selected = %d, want 4", m.selected)
	}

	send(m, "c")
	send(m, "enter")
	if n := len(c.View().Schedule); n != 2 {
		t.Fatalf("schedule after copy has %d tasks, want 2", n)
	}
	if m.selected != 1 {
		t.Fatalf("selection not clamped after copy: %d", m.selected)
	}

	send(m, "x")
	if m.state != stateConfirm || m.pending == "" {
		t.Fatalf("delete after copy: state %d, pending %q", m.state, m.pending)
	}
}

func TestModelDeleteIgnoresStaleSelection(t *testing.T) {
	m, _, _ := newCopyModel(t)
	m.selected = 7
	send(m, "x")
	if m.state != stateBrowse {
		t.Fatalf("delete with out of range selection changed state to %d", m.state)
	}
}

func TestModelCopyBannerExpires(t *testing.T) {
	m, c, _ := newCopyModel(t)
	send(m, "c")
	send(m, "enter")
	st := c.State()
	if len(st.Banners) != 1 || st.Banners[0].Text != "Schedule copied successfully" {
		t.Fatalf("banners = %+v", st.Banners)
	}
	m.Update(expireMsg{id: st.Banners[0].ID})
	if got := c.State().Banners; len(got) != 0 {
		t.Fatalf("banner still shown after expiry: %+v", got)
	}
}
