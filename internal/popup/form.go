package popup

import (
	"strings"

	"github.com/dayplan/dayplan/pkg/schedule"
)

// Form is the add-task form. Values are sent as typed; the service does
// the validation.
type Form struct {
	Name      string
	Date      string
	StartTime string
	EndTime   string
	// Subtasks is free text, one subtask per line.
	Subtasks string

	Alarm        bool
	SoundType    string
	Volume       int
	ReminderTime int
}

// Request builds the add-task payload. Blank subtask lines are dropped.
func (f Form) Request() *schedule.NewTaskRequest {
	return &schedule.NewTaskRequest{
		Name:      f.Name,
		Date:      strings.TrimSpace(f.Date),
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Subtasks:  schedule.SplitSubtasks(f.Subtasks),
		Notification: schedule.Notification{
			Enabled:      f.Alarm,
			SoundType:    f.SoundType,
			Volume:       schedule.LooseInt(f.Volume),
			ReminderTime: schedule.LooseInt(f.ReminderTime),
		},
	}
}
