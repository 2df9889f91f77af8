package popup

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dayplan/dayplan/pkg/schedule"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	taskStyle     = lipgloss.NewStyle().Bold(true)
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	successStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	panelStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderOptions carries the parts of the screen owned by the terminal model.
type RenderOptions struct {
	// Spinner replaces the plain loading placeholder when set.
	Spinner string
	// Selected is the highlighted period key.
	Selected string
}

// Render draws the popup: banners, mode controls, the schedule pane and the
// preferences panel.
func Render(st State, opts RenderOptions) string {
	var b strings.Builder
	for _, bn := range st.Banners {
		style := successStyle
		if bn.Kind == BannerError {
			style = errorStyle
		}
		b.WriteString(style.Render(bn.Text))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render("Mode: " + st.View.Mode.String()))
	b.WriteString("\n")
	switch st.View.Mode {
	case ModeCustomDate:
		b.WriteString(dimStyle.Render("Date: " + st.View.Date + "  (d to change)"))
		b.WriteString("\n")
	case ModeCopy:
		b.WriteString("Copy yesterday's schedule to today? (enter)\n")
	}
	b.WriteString("\n")
	b.WriteString(renderSchedule(st.View, opts))
	b.WriteString("\n")
	b.WriteString(renderPrefs(st))
	return b.String()
}

func renderSchedule(v View, opts RenderOptions) string {
	if v.Loading {
		if opts.Spinner != "" {
			return opts.Spinner + " Loading...\n"
		}
		return "Loading...\n"
	}
	if v.Err != "" {
		return errorStyle.Render(v.Err) + "\n"
	}
	var b strings.Builder
	label := schedule.DisplayDate(v.Date)
	b.WriteString(headerStyle.Render("Tasks for " + label))
	b.WriteString("\n")
	if len(v.Schedule) == 0 {
		b.WriteString(dimStyle.Render("No tasks."))
		b.WriteString("\n")
		return b.String()
	}
	for _, period := range v.Schedule.Keys() {
		t := v.Schedule[period]
		style := taskStyle
		marker := "  "
		if period == opts.Selected {
			style = selectedStyle
			marker = "> "
		}
		b.WriteString(marker + style.Render(t.Name))
		b.WriteString(dimStyle.Render(fmt.Sprintf("  [%s]", period)))
		b.WriteString("\n")
		fmt.Fprintf(&b, "    %s - %s\n", t.StartTime, t.EndTime)
		for _, st := range t.Subtasks {
			fmt.Fprintf(&b, "    • %s\n", st)
		}
	}
	return b.String()
}

func renderPrefs(st State) string {
	alarm := "off"
	if st.Prefs.AlarmEnabled {
		alarm = "on"
	}
	lines := []string{"Alarm: " + alarm}
	// The notification settings are only shown while the alarm is on.
	if st.Prefs.AlarmEnabled {
		lines = append(lines, fmt.Sprintf("Volume: %d", st.Prefs.Volume))
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
