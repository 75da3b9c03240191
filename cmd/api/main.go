package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/storewatch/internal/config"
	"github.com/hamed0406/storewatch/internal/httpapi"
	apimw "github.com/hamed0406/storewatch/internal/httpapi/middleware"
	"github.com/hamed0406/storewatch/internal/logging"
	"github.com/hamed0406/storewatch/internal/notify"
	"github.com/hamed0406/storewatch/internal/report"
	"github.com/hamed0406/storewatch/internal/repo"
	"github.com/hamed0406/storewatch/internal/repo/memory"
	"github.com/hamed0406/storewatch/internal/repo/postgres"
	"github.com/hamed0406/storewatch/internal/scheduler"
	"github.com/hamed0406/storewatch/internal/uptime"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.NewLogger(cfg.LogDir)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	ctx := context.Background()

	var (
		polls   repo.PollStore
		hours   repo.HoursStore
		zones   repo.TimezoneStore
		reports repo.ReportStore
	)
	if cfg.DatabaseURL == "" {
		m := memory.New()
		polls, hours, zones, reports = m, m, m, m
		logger.Warn("using_memory_store")
	} else {
		pg, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer pg.Close()
		polls, hours, zones, reports = pg, pg, pg, pg
	}

	calc := &uptime.Calculator{Polls: polls, Hours: hours, Zones: zones}
	tracker := report.NewTracker()

	var notifier notify.Notifier
	if s := notify.NewSlack(cfg.SlackWebhookURL); s != nil {
		notifier = s
	}

	nowFn := time.Now
	if !cfg.ReferenceTime.IsZero() {
		ref := cfg.ReferenceTime
		nowFn = func() time.Time { return ref }
		logger.Info("reference_time_pinned", zap.Time("now", ref))
	}

	orch := report.NewOrchestrator(logger, calc, zones, reports, tracker, notifier, cfg.ReportConcurrency, nowFn)

	if cfg.ReportInterval > 0 {
		go scheduler.NewTicker(logger, orch, cfg.ReportInterval).Run(ctx)
	}

	api := httpapi.NewServer(logger, orch, tracker, reports, cfg.ReportDir)
	keys := apimw.Keys{Public: cfg.PublicAPIKeys, Admin: cfg.AdminAPIKeys}

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, api.Router(keys, cfg.AllowedOrigins, cfg.RateLimitPerMin, cfg.RateLimitBurst)); err != nil {
		log.Fatal(err)
	}
}
