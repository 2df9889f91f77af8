package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ClockLayout is the canonical time-of-day format: zero padded, 24 hour,
// no seconds.
const ClockLayout = "15:04"

// ErrInvalidClock is returned for values that are not a 24-hour time of day.
var ErrInvalidClock = errors.New("invalid time of day")

// NormalizeClock parses "H:MM", "HH:MM" or "HH:MM:SS" (surrounding blanks
// allowed) and returns the canonical "HH:MM" form. Seconds are dropped.
func NormalizeClock(s string) (string, error) {
	h, m, err := parseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", h, m), nil
}

func parseClock(s string) (int, int, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := clockField(parts[0], 1, 2, 23)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := clockField(parts[1], 2, 2, 59)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if len(parts) == 3 {
		if _, err := clockField(parts[2], 2, 2, 59); err != nil {
			return 0, 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
		}
	}
	return h, m, nil
}

func clockField(s string, minLen, maxLen, max int) (int, error) {
	if len(s) < minLen || len(s) > maxLen {
		return 0, ErrInvalidClock
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrInvalidClock
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil || v > max {
		return 0, ErrInvalidClock
	}
	return v, nil
}

// FormatClock renders t in the canonical clock layout using t's location.
func FormatClock(t time.Time) string {
	return t.Format(ClockLayout)
}

// ShiftClock moves a canonical clock value by the given number of minutes,
// wrapping around midnight.
func ShiftClock(clock string, minutes int) (string, error) {
	h, m, err := parseClock(clock)
	if err != nil {
		return "", err
	}
	total := ((h*60+m+minutes)%1440 + 1440) % 1440
	return fmt.Sprintf("%02d:%02d", total/60, total%60), nil
}
