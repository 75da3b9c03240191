package notify

import (
	"context"

	"go.uber.org/multierr"
)

// Notifier delivers a short out-of-band message, e.g. when a report job
// reaches a terminal state.
type Notifier interface {
	Send(ctx context.Context, title, text string) error
}

type Multi []Notifier

func (m Multi) Send(ctx context.Context, title, text string) error {
	var errs error
	for _, n := range m {
		if n == nil {
			continue
		}
		errs = multierr.Append(errs, n.Send(ctx, title, text))
	}
	return errs
}
