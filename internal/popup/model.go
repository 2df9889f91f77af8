package popup

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dayplan/dayplan/common"
)

type inputState int

const (
	stateBrowse inputState = iota
	stateDate
	stateForm
	stateConfirm
)

// form prompts, in order
const (
	stepName = iota
	stepDate
	stepStart
	stepEnd
	stepSubtask
	stepReminder
	stepCount
)

var stepPrompts = [stepCount]string{
	"Task name",
	"Date (YYYY-MM-DD, empty for today)",
	"Start time (HH:MM)",
	"End time (HH:MM)",
	"Subtask (empty line to finish)",
	"Reminder minutes before",
}

const volumeStep = 5

type (
	fetchedMsg struct{}
	opDoneMsg  struct{ err error }
	bannerMsg  struct{ b Banner }
	expireMsg  struct{ id string }
)

// Model is the bubbletea program around a Controller.
type Model struct {
	ctx  context.Context
	ctrl *Controller
	keys keyMap

	spin  spinner.Model
	input textinput.Model

	state    inputState
	step     int
	form     Form
	subtasks []string
	pending  string
	selected int
	alert    string
	quitting bool
}

// NewModel creates the terminal popup. ctx bounds every request it issues.
func NewModel(ctx context.Context, ctrl *Controller) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	ti := textinput.New()
	ti.CharLimit = 256
	return &Model{
		ctx:   ctx,
		ctrl:  ctrl,
		keys:  defaultKeys(),
		spin:  sp,
		input: ti,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, func() tea.Msg {
		_ = m.ctrl.Open(m.ctx)
		return fetchedMsg{}
	})
}

func (m *Model) run(op func()) tea.Cmd {
	return func() tea.Msg {
		op()
		return fetchedMsg{}
	}
}

func expireAfter(b Banner) tea.Cmd {
	return tea.Tick(common.BannerTTL, func(time.Time) tea.Msg { return expireMsg{id: b.ID} })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case fetchedMsg:
		m.clampSelection()
		return m, nil
	case opDoneMsg:
		if msg.err != nil {
			m.alert = msg.err.Error()
		}
		m.clampSelection()
		return m, nil
	case bannerMsg:
		m.clampSelection()
		return m, expireAfter(msg.b)
	case expireMsg:
		m.ctrl.ExpireBanner(msg.id)
		return m, nil
	case tea.KeyMsg:
		if m.alert != "" {
			m.alert = ""
			return m, nil
		}
		switch m.state {
		case stateDate, stateForm:
			return m.updateInput(msg)
		case stateConfirm:
			return m.updateConfirm(msg)
		}
		return m.updateBrowse(msg)
	}
	return m, nil
}

func (m *Model) periods() []string {
	return m.ctrl.View().Schedule.Keys()
}

func (m *Model) clampSelection() {
	n := len(m.periods())
	if m.selected >= n {
		m.selected = n - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Today):
		return m, m.run(func() { m.ctrl.SetMode(m.ctx, ModeToday) })
	case key.Matches(msg, m.keys.Date):
		m.ctrl.SetMode(m.ctx, ModeCustomDate)
		m.state = stateDate
		m.prompt("Date (YYYY-MM-DD)", "")
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Copy):
		m.ctrl.SetMode(m.ctx, ModeCopy)
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if m.ctrl.View().Mode != ModeCopy {
			return m, nil
		}
		return m, func() tea.Msg { return bannerMsg{b: m.ctrl.CopySchedule(m.ctx)} }
	case key.Matches(msg, m.keys.Add):
		p := m.ctrl.Prefs()
		m.form = Form{Alarm: p.AlarmEnabled, SoundType: "default", Volume: p.Volume, ReminderTime: 5}
		m.subtasks = nil
		m.state = stateForm
		m.step = stepName
		m.prompt(stepPrompts[stepName], "")
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Delete):
		ps := m.periods()
		if m.selected >= len(ps) {
			return m, nil
		}
		m.pending = ps[m.selected]
		m.state = stateConfirm
		return m, nil
	case key.Matches(msg, m.keys.Refresh):
		return m, m.run(func() { m.ctrl.Refresh(m.ctx) })
	case key.Matches(msg, m.keys.Alarm):
		if err := m.ctrl.SetAlarmEnabled(!m.ctrl.Prefs().AlarmEnabled); err != nil {
			m.alert = err.Error()
		}
		return m, nil
	case key.Matches(msg, m.keys.VolUp), key.Matches(msg, m.keys.VolDown):
		v := m.ctrl.Prefs().Volume
		if key.Matches(msg, m.keys.VolUp) {
			v = min(v+volumeStep, 100)
		} else {
			v = max(v-volumeStep, 0)
		}
		if err := m.ctrl.SetVolume(v); err != nil {
			m.alert = err.Error()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.periods())-1 {
			m.selected++
		}
	}
	return m, nil
}

func (m *Model) prompt(label, value string) {
	m.input.Prompt = label + ": "
	m.input.SetValue(value)
	m.input.Focus()
}

func (m *Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.state = stateBrowse
		m.input.Blur()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		value := m.input.Value()
		if m.state == stateDate {
			m.state = stateBrowse
			m.input.Blur()
			date := strings.TrimSpace(value)
			return m, m.run(func() { m.ctrl.SetDate(m.ctx, date) })
		}
		return m.advanceForm(value)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) advanceForm(value string) (tea.Model, tea.Cmd) {
	switch m.step {
	case stepName:
		m.form.Name = value
	case stepDate:
		m.form.Date = value
	case stepStart:
		m.form.StartTime = value
	case stepEnd:
		m.form.EndTime = value
	case stepSubtask:
		if strings.TrimSpace(value) != "" {
			m.subtasks = append(m.subtasks, value)
			m.prompt(stepPrompts[stepSubtask], "")
			return m, nil
		}
		m.form.Subtasks = strings.Join(m.subtasks, "\n")
	case stepReminder:
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			m.form.ReminderTime = n
		}
		m.state = stateBrowse
		m.input.Blur()
		form := m.form
		return m, func() tea.Msg { return opDoneMsg{err: m.ctrl.AddTask(m.ctx, form)} }
	}
	m.step++
	def := ""
	if m.step == stepReminder {
		def = strconv.Itoa(m.form.ReminderTime)
	}
	m.prompt(stepPrompts[m.step], def)
	return m, nil
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pending
	switch {
	case key.Matches(msg, m.keys.Yes):
		m.state = stateBrowse
		m.pending = ""
		return m, func() tea.Msg {
			return opDoneMsg{err: m.ctrl.DeleteTask(m.ctx, id, func(string) bool { return true })}
		}
	case key.Matches(msg, m.keys.No):
		m.state = stateBrowse
		m.pending = ""
	}
	return m, nil
}

func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.ctrl.State()
	var selected string
	if ps := st.View.Schedule.Keys(); m.selected < len(ps) {
		selected = ps[m.selected]
	}
	var b strings.Builder
	b.WriteString(headerStyle.Render("dayplan"))
	b.WriteString("\n\n")
	b.WriteString(Render(st, RenderOptions{Spinner: m.spin.View(), Selected: selected}))
	b.WriteString("\n")
	switch m.state {
	case stateDate, stateForm:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case stateConfirm:
		b.WriteString(DeleteConfirmation + " (y/n)\n")
	}
	if m.alert != "" {
		b.WriteString(errorStyle.Render(m.alert))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render(m.keys.helpLine()))
	b.WriteString("\n")
	return b.String()
}
