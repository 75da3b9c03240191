package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Trigger starts one report job and returns its token.
type Trigger interface {
	Trigger() string
}

// Ticker re-triggers report generation on a fixed interval. Each pass is
// fire-and-forget; an overlapping earlier job keeps running independently.
type Ticker struct {
	Logger   *zap.Logger
	Reports  Trigger
	Interval time.Duration
}

func NewTicker(logger *zap.Logger, reports Trigger, interval time.Duration) *Ticker {
	return &Ticker{Logger: logger, Reports: reports, Interval: interval}
}

// Run starts the loop. It does an immediate pass, then runs each tick.
// Stops when ctx is cancelled.
func (t *Ticker) Run(ctx context.Context) {
	if t.Interval == 0 {
		// disabled
		t.Logger.Info("report_ticker_disabled")
		return
	}
	tick := time.NewTicker(t.Interval)
	defer tick.Stop()

	t.runOnce()

	for {
		select {
		case <-ctx.Done():
			t.Logger.Info("report_ticker_stopped")
			return
		case <-tick.C:
			t.runOnce()
		}
	}
}

func (t *Ticker) runOnce() {
	id := t.Reports.Trigger()
	t.Logger.Info("report_ticker_triggered", zap.String("report_id", id))
}
