package notifier

import (
	"context"

	"github.com/hashicorp/go-multierror"
)

// Sink delivers a reminder to the user (desktop popup, connected clients).
type Sink interface {
	Deliver(ctx context.Context, r Reminder) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, r Reminder) error

func (f SinkFunc) Deliver(ctx context.Context, r Reminder) error {
	return f(ctx, r)
}

// MultiSink delivers to every sink and reports all failures together.
type MultiSink []Sink

func (m MultiSink) Deliver(ctx context.Context, r Reminder) error {
	var result *multierror.Error
	for _, s := range m {
		if err := s.Deliver(ctx, r); err != nil {
			result = multierror.Append(result, err)
		}
	}
	return result.ErrorOrNil()
}

// Recorder persists delivered reminders. Record reports false when the
// reminder was already recorded, in which case it is not delivered again.
// Forget drops a record whose delivery failed.
type Recorder interface {
	Record(ctx context.Context, r Reminder) (bool, error)
	Forget(ctx context.Context, r Reminder) error
}
