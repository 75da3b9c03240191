package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/storewatch/internal/domain"
	"github.com/hamed0406/storewatch/internal/notify"
	"github.com/hamed0406/storewatch/internal/repo"
	"github.com/hamed0406/storewatch/internal/uptime"
)

// Orchestrator fans report generation out over every store in the timezone
// registry and tracks the job's lifecycle in a Tracker.
type Orchestrator struct {
	Logger      *zap.Logger
	Calc        *uptime.Calculator
	Zones       repo.TimezoneStore
	Reports     repo.ReportStore
	Tracker     *Tracker
	Notifier    notify.Notifier // optional
	Concurrency int
	Now         func() time.Time // evaluation instant seam
}

func NewOrchestrator(
	logger *zap.Logger,
	calc *uptime.Calculator,
	zones repo.TimezoneStore,
	reports repo.ReportStore,
	tracker *Tracker,
	notifier notify.Notifier,
	concurrency int,
	now func() time.Time,
) *Orchestrator {
	if concurrency < 1 {
		concurrency = 1
	}
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		Logger:      logger,
		Calc:        calc,
		Zones:       zones,
		Reports:     reports,
		Tracker:     tracker,
		Notifier:    notifier,
		Concurrency: concurrency,
		Now:         now,
	}
}

// Trigger allocates a token, registers a Running job and launches generation
// in the background. It never blocks on the computation; callers observe
// progress by polling the token. There is no abort path: once triggered, a
// job runs to Complete or Error.
func (o *Orchestrator) Trigger() string {
	id := uuid.NewString()
	o.Tracker.Create(id)
	o.Logger.Info("report_started", zap.String("report_id", id))
	go o.generate(context.Background(), id)
	return id
}

func (o *Orchestrator) generate(ctx context.Context, id string) {
	now := o.Now()

	ids, err := o.Zones.StoreIDs(ctx)
	if err != nil {
		o.fail(ctx, id, fmt.Errorf("list stores: %w", err))
		return
	}

	sem := make(chan struct{}, o.Concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var rows []domain.ReportRow
	var errs error

	for _, sid := range ids {
		sid := sid
		sem <- struct{}{}
		wg.Add(1)
		go func() {
			defer func() { <-sem }()
			defer wg.Done()

			m, err := o.Calc.Compute(ctx, sid, now)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = multierr.Append(errs, fmt.Errorf("store %s: %w", sid, err))
				return
			}
			if m == nil {
				// no timezone configured: absent from the report, not an error
				o.Logger.Debug("store_skipped", zap.String("store_id", string(sid)))
				return
			}
			rows = append(rows, domain.ReportRow{
				ReportID:         id,
				StoreID:          sid,
				UptimeLastHour:   m.UptimeLastHour,
				UptimeLastDay:    m.UptimeLastDay,
				UptimeLastWeek:   m.UptimeLastWeek,
				DowntimeLastHour: m.DowntimeLastHour,
				DowntimeLastDay:  m.DowntimeLastDay,
				DowntimeLastWeek: m.DowntimeLastWeek,
			})
		}()
	}
	wg.Wait()

	// Any per-store failure abandons the whole batch; no partial report is
	// ever persisted.
	if errs != nil {
		o.fail(ctx, id, errs)
		return
	}
	if err := o.Reports.SaveReport(ctx, id, rows); err != nil {
		o.fail(ctx, id, fmt.Errorf("save report: %w", err))
		return
	}

	o.Tracker.Finish(id, StatusComplete)
	o.Logger.Info("report_complete",
		zap.String("report_id", id),
		zap.Int("stores", len(rows)),
	)
	o.notifyDone(ctx, id, StatusComplete)
}

func (o *Orchestrator) fail(ctx context.Context, id string, err error) {
	o.Tracker.Finish(id, StatusError)
	o.Logger.Error("report_failed", zap.String("report_id", id), zap.Error(err))
	o.notifyDone(ctx, id, StatusError)
}

func (o *Orchestrator) notifyDone(ctx context.Context, id string, s JobStatus) {
	if o.Notifier == nil {
		return
	}
	title := "Uptime report " + string(s)
	text := fmt.Sprintf("report_id: %s\nfinished: %s", id, time.Now().UTC().Format(time.RFC3339))
	if err := o.Notifier.Send(ctx, title, text); err != nil {
		o.Logger.Warn("notify_error", zap.String("report_id", id), zap.Error(err))
	}
}
