package schedule

import (
	"strings"
	"time"
)

const (
	// Today selects the service's current-day endpoint.
	Today = "today"

	// CopyDateLayout is the day-month-year format used in copy requests.
	CopyDateLayout = "02-01-2006"

	// DateLayout is the ISO date used for schedule files and the add form.
	DateLayout = "2006-01-02"
)

// IsToday reports whether date selects the current-day schedule.
func IsToday(date string) bool {
	d := strings.TrimSpace(date)
	return d == "" || strings.EqualFold(d, Today)
}

// CopyDates returns yesterday and today relative to now, at day precision,
// in CopyDateLayout.
func CopyDates(now time.Time) (source, target string) {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 12, 0, 0, 0, now.Location())
	return today.AddDate(0, 0, -1).Format(CopyDateLayout), today.Format(CopyDateLayout)
}

// DisplayDate is the heading label for a schedule date.
func DisplayDate(date string) string {
	if IsToday(date) {
		return "Today"
	}
	return date
}
