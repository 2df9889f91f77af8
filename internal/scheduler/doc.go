// Package scheduler runs timed events for the dayplan daemon. A single
// goroutine keeps a min-heap of Events ordered by fire time and sleeps at most
// 60 seconds between checks, so wall-clock steps (NTP, DST, laptop sleep) are
// noticed within a minute.
//
// Events carrying a cron expression are re-armed after they fire; the
// notifier's minute poll is one such event.
package scheduler
