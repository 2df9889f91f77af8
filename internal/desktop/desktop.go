// Package desktop shows reminders as native desktop notifications.
package desktop

import (
	"context"
	"fmt"

	"github.com/dayplan/dayplan/internal/notifier"
	"github.com/dayplan/dayplan/internal/prefs"
	"github.com/dayplan/dayplan/pkg/logger"
	"github.com/gen2brain/beeep"
)

var (
	beeepNotify = beeep.Notify
	beeepAlert  = beeep.Alert
)

// PrefsReader supplies the alarm preference at delivery time.
type PrefsReader interface {
	Load() (prefs.Prefs, error)
}

// Sink delivers reminders through beeep. When the alarm preference is on,
// start reminders use an audible alert; everything else is a plain
// notification.
type Sink struct {
	icon  string
	prefs PrefsReader
	log   logger.Logger
}

// NewSink returns a sink showing icon with every notification. p may be nil.
func NewSink(icon string, p PrefsReader, l logger.Logger) *Sink {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &Sink{icon: icon, prefs: p, log: l}
}

func (s *Sink) alarm() bool {
	if s.prefs == nil {
		return false
	}
	p, err := s.prefs.Load()
	if err != nil {
		s.log.Warning("desktop: load prefs: %v", err)
	}
	return p.AlarmEnabled
}

func (s *Sink) Deliver(ctx context.Context, r notifier.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	send := beeepNotify
	if r.Priority >= 2 && s.alarm() {
		send = beeepAlert
	}
	if err := send(r.Title, r.Body, s.icon); err != nil {
		return fmt.Errorf("desktop notification: %w", err)
	}
	return nil
}

var _ notifier.Sink = (*Sink)(nil)
