package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hamed0406/storewatch/internal/domain"
	"github.com/hamed0406/storewatch/internal/repo"
)

var (
	_ repo.PollStore     = (*Store)(nil)
	_ repo.HoursStore    = (*Store)(nil)
	_ repo.TimezoneStore = (*Store)(nil)
	_ repo.ReportStore   = (*Store)(nil)
)

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	p, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return &Store{pool: p}, nil
}

func (s *Store) Close() { s.pool.Close() }

// ---- PollStore ----

func (s *Store) PollsBetween(ctx context.Context, id domain.StoreID, from, to time.Time) ([]domain.StorePoll, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT timestamp_utc, status
		   FROM store_status
		  WHERE store_id = $1 AND timestamp_utc >= $2 AND timestamp_utc <= $3
		  ORDER BY timestamp_utc`, string(id), from, to)
	if err != nil {
		return nil, fmt.Errorf("polls between: %w", err)
	}
	defer rows.Close()

	var out []domain.StorePoll
	for rows.Next() {
		p := domain.StorePoll{StoreID: id}
		var status string
		if err := rows.Scan(&p.Timestamp, &status); err != nil {
			return nil, fmt.Errorf("scan poll: %w", err)
		}
		p.Status = domain.Status(status)
		out = append(out, p)
	}
	return out, rows.Err()
}

// ---- HoursStore ----

func (s *Store) IntervalsByStore(ctx context.Context, id domain.StoreID) ([]domain.BusinessInterval, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT day, start_time_local, end_time_local
		   FROM business_hours
		  WHERE store_id = $1`, string(id))
	if err != nil {
		return nil, fmt.Errorf("business hours: %w", err)
	}
	defer rows.Close()

	var out []domain.BusinessInterval
	for rows.Next() {
		iv := domain.BusinessInterval{StoreID: id}
		if err := rows.Scan(&iv.Weekday, &iv.StartLocal, &iv.EndLocal); err != nil {
			return nil, fmt.Errorf("scan interval: %w", err)
		}
		out = append(out, iv)
	}
	return out, rows.Err()
}

// ---- TimezoneStore ----

func (s *Store) Timezone(ctx context.Context, id domain.StoreID) (string, error) {
	var zone string
	err := s.pool.QueryRow(ctx,
		`SELECT timezone_str FROM timezone WHERE store_id = $1`, string(id)).Scan(&zone)
	if err != nil {
		if err == pgx.ErrNoRows {
			return "", nil // not configured: caller skips the store
		}
		return "", fmt.Errorf("timezone: %w", err)
	}
	return zone, nil
}

func (s *Store) StoreIDs(ctx context.Context) ([]domain.StoreID, error) {
	rows, err := s.pool.Query(ctx, `SELECT DISTINCT store_id FROM timezone ORDER BY store_id`)
	if err != nil {
		return nil, fmt.Errorf("store ids: %w", err)
	}
	defer rows.Close()

	var out []domain.StoreID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan store id: %w", err)
		}
		out = append(out, domain.StoreID(id))
	}
	return out, rows.Err()
}

// ---- ReportStore ----

// SaveReport writes the whole batch inside one transaction; a failure on any
// row leaves nothing persisted.
func (s *Store) SaveReport(ctx context.Context, reportID string, reportRows []domain.ReportRow) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin report tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, r := range reportRows {
		_, err := tx.Exec(ctx,
			`INSERT INTO reports
			   (report_id, store_id,
			    uptime_last_hour, uptime_last_day, uptime_last_week,
			    downtime_last_hour, downtime_last_day, downtime_last_week)
			 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
			reportID, string(r.StoreID),
			r.UptimeLastHour, r.UptimeLastDay, r.UptimeLastWeek,
			r.DowntimeLastHour, r.DowntimeLastDay, r.DowntimeLastWeek)
		if err != nil {
			return fmt.Errorf("insert report row: %w", err)
		}
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit report: %w", err)
	}
	return nil
}

func (s *Store) RowsByReport(ctx context.Context, reportID string) ([]domain.ReportRow, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT store_id,
		        uptime_last_hour, uptime_last_day, uptime_last_week,
		        downtime_last_hour, downtime_last_day, downtime_last_week
		   FROM reports
		  WHERE report_id = $1
		  ORDER BY store_id`, reportID)
	if err != nil {
		return nil, fmt.Errorf("report rows: %w", err)
	}
	defer rows.Close()

	var out []domain.ReportRow
	for rows.Next() {
		r := domain.ReportRow{ReportID: reportID}
		var storeID string
		if err := rows.Scan(&storeID,
			&r.UptimeLastHour, &r.UptimeLastDay, &r.UptimeLastWeek,
			&r.DowntimeLastHour, &r.DowntimeLastDay, &r.DowntimeLastWeek); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		r.StoreID = domain.StoreID(storeID)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *Store) ReportExists(ctx context.Context, reportID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reports WHERE report_id = $1)`, reportID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("report exists: %w", err)
	}
	return exists, nil
}
