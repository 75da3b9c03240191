package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/storewatch/internal/domain"
)

// Minimal schema so the test can run on a fresh DB/volume. Mirrors the
// ingestion pipeline's tables.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS store_status (
  store_id      TEXT NOT NULL,
  timestamp_utc TIMESTAMPTZ NOT NULL,
  status        TEXT NOT NULL,
  PRIMARY KEY (store_id, timestamp_utc)
);

CREATE TABLE IF NOT EXISTS business_hours (
  store_id         TEXT NOT NULL,
  day              INTEGER NOT NULL,
  start_time_local TEXT NOT NULL,
  end_time_local   TEXT NOT NULL,
  PRIMARY KEY (store_id, day, start_time_local)
);

CREATE TABLE IF NOT EXISTS timezone (
  store_id     TEXT PRIMARY KEY,
  timezone_str TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reports (
  report_id          TEXT NOT NULL,
  store_id           TEXT NOT NULL,
  uptime_last_hour   DOUBLE PRECISION NOT NULL,
  uptime_last_day    DOUBLE PRECISION NOT NULL,
  uptime_last_week   DOUBLE PRECISION NOT NULL,
  downtime_last_hour DOUBLE PRECISION NOT NULL,
  downtime_last_day  DOUBLE PRECISION NOT NULL,
  downtime_last_week DOUBLE PRECISION NOT NULL,
  PRIMARY KEY (report_id, store_id)
);

CREATE INDEX IF NOT EXISTS idx_store_status_store_time ON store_status (store_id, timestamp_utc);
`

func ensureSchema(t *testing.T, dsn string) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("pgxpool.New: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
}

func openStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping Postgres integration test")
	}
	ensureSchema(t, dsn)

	s, err := New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func TestPostgresStore_PollsAndConfig(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	id := domain.StoreID("itest-" + time.Now().UTC().Format("20060102T150405.000000000"))
	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)

	for i, status := range []domain.Status{domain.StatusActive, domain.StatusInactive} {
		_, err := s.pool.Exec(ctx,
			`INSERT INTO store_status (store_id, timestamp_utc, status) VALUES ($1,$2,$3)`,
			string(id), base.Add(time.Duration(i)*time.Hour), string(status))
		if err != nil {
			t.Fatalf("seed poll: %v", err)
		}
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO business_hours (store_id, day, start_time_local, end_time_local) VALUES ($1,0,'09:00:00','17:00:00')`,
		string(id)); err != nil {
		t.Fatalf("seed hours: %v", err)
	}
	if _, err := s.pool.Exec(ctx,
		`INSERT INTO timezone (store_id, timezone_str) VALUES ($1,'UTC')`, string(id)); err != nil {
		t.Fatalf("seed timezone: %v", err)
	}

	polls, err := s.PollsBetween(ctx, id, base, base.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("PollsBetween: %v", err)
	}
	if len(polls) != 2 || polls[0].Status != domain.StatusActive || polls[1].Status != domain.StatusInactive {
		t.Fatalf("unexpected polls: %+v", polls)
	}

	ivs, err := s.IntervalsByStore(ctx, id)
	if err != nil {
		t.Fatalf("IntervalsByStore: %v", err)
	}
	if len(ivs) != 1 || ivs[0].StartLocal != "09:00:00" {
		t.Fatalf("unexpected intervals: %+v", ivs)
	}

	zone, err := s.Timezone(ctx, id)
	if err != nil || zone != "UTC" {
		t.Fatalf("Timezone: %q err=%v", zone, err)
	}
	// unknown store: empty zone, nil error
	zone, err = s.Timezone(ctx, "no-such-store")
	if err != nil || zone != "" {
		t.Fatalf("missing Timezone: %q err=%v", zone, err)
	}
}

func TestPostgresStore_ReportRoundTrip(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	reportID := "itest-" + time.Now().UTC().Format("20060102T150405.000000000")
	rows := []domain.ReportRow{
		{ReportID: reportID, StoreID: "b", UptimeLastHour: 60, UptimeLastDay: 8, UptimeLastWeek: 8, DowntimeLastDay: 1, DowntimeLastWeek: 1},
		{ReportID: reportID, StoreID: "a", UptimeLastWeek: 9},
	}
	if err := s.SaveReport(ctx, reportID, rows); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	exists, err := s.ReportExists(ctx, reportID)
	if err != nil || !exists {
		t.Fatalf("ReportExists: %v err=%v", exists, err)
	}

	got, err := s.RowsByReport(ctx, reportID)
	if err != nil {
		t.Fatalf("RowsByReport: %v", err)
	}
	if len(got) != 2 || got[0].StoreID != "a" || got[1].StoreID != "b" {
		t.Fatalf("rows not ordered by store id: %+v", got)
	}
	if got[1].UptimeLastHour != 60 || got[1].DowntimeLastWeek != 1 {
		t.Fatalf("row values mismatch: %+v", got[1])
	}

	// A duplicate batch violates the primary key and must leave the stored
	// rows untouched (all-or-nothing).
	if err := s.SaveReport(ctx, reportID, rows); err == nil {
		t.Fatalf("expected duplicate batch to fail")
	}
	got, err = s.RowsByReport(ctx, reportID)
	if err != nil || len(got) != 2 {
		t.Fatalf("rows after failed batch: %d err=%v", len(got), err)
	}
}
