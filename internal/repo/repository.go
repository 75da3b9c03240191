package repo

import (
	"context"
	"time"

	"github.com/hamed0406/storewatch/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.

// PollStore reads the append-only status poll log.
type PollStore interface {
	// PollsBetween returns every poll for one store with from <= timestamp <= to,
	// ordered by timestamp ascending.
	PollsBetween(ctx context.Context, id domain.StoreID, from, to time.Time) ([]domain.StorePoll, error)
}

// HoursStore reads per-store business-hour configuration.
type HoursStore interface {
	IntervalsByStore(ctx context.Context, id domain.StoreID) ([]domain.BusinessInterval, error)
}

// TimezoneStore reads the store -> IANA zone registry. The registry also
// defines the store universe a report covers.
type TimezoneStore interface {
	// Timezone returns "" with a nil error when the store has no zone
	// configured; such stores are excluded from reports.
	Timezone(ctx context.Context, id domain.StoreID) (string, error)
	StoreIDs(ctx context.Context) ([]domain.StoreID, error)
}

// ReportStore persists and reads generated report rows.
type ReportStore interface {
	// SaveReport writes all rows for one report as a unit: either every row
	// lands or none do.
	SaveReport(ctx context.Context, reportID string, rows []domain.ReportRow) error
	// RowsByReport returns the persisted rows ordered by store id, so exports
	// regenerate identically.
	RowsByReport(ctx context.Context, reportID string) ([]domain.ReportRow, error)
	ReportExists(ctx context.Context, reportID string) (bool, error)
}
