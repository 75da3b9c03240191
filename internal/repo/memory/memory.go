package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/hamed0406/storewatch/internal/domain"
	"github.com/hamed0406/storewatch/internal/repo"
)

var (
	_ repo.PollStore     = (*Store)(nil)
	_ repo.HoursStore    = (*Store)(nil)
	_ repo.TimezoneStore = (*Store)(nil)
	_ repo.ReportStore   = (*Store)(nil)
)

// Store is an in-memory adapter for every port. Used by tests and when
// DATABASE_URL is empty.
type Store struct {
	mu        sync.RWMutex
	polls     map[domain.StoreID][]domain.StorePoll
	intervals map[domain.StoreID][]domain.BusinessInterval
	zones     map[domain.StoreID]string
	reports   map[string][]domain.ReportRow
}

func New() *Store {
	return &Store{
		polls:     make(map[domain.StoreID][]domain.StorePoll),
		intervals: make(map[domain.StoreID][]domain.BusinessInterval),
		zones:     make(map[domain.StoreID]string),
		reports:   make(map[string][]domain.ReportRow),
	}
}

// ---- seeding (not part of the ports; ingestion is external) ----

func (m *Store) AddPoll(p domain.StorePoll) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.polls[p.StoreID] = append(m.polls[p.StoreID], p)
}

func (m *Store) AddInterval(iv domain.BusinessInterval) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.intervals[iv.StoreID] = append(m.intervals[iv.StoreID], iv)
}

func (m *Store) SetTimezone(id domain.StoreID, zone string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.zones[id] = zone
}

// ---- PollStore ----

func (m *Store) PollsBetween(ctx context.Context, id domain.StoreID, from, to time.Time) ([]domain.StorePoll, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.StorePoll
	for _, p := range m.polls[id] {
		if !p.Timestamp.Before(from) && !p.Timestamp.After(to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// ---- HoursStore ----

func (m *Store) IntervalsByStore(ctx context.Context, id domain.StoreID) ([]domain.BusinessInterval, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.BusinessInterval, len(m.intervals[id]))
	copy(out, m.intervals[id])
	return out, nil
}

// ---- TimezoneStore ----

func (m *Store) Timezone(ctx context.Context, id domain.StoreID) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.zones[id], nil // "" when not configured
}

func (m *Store) StoreIDs(ctx context.Context) ([]domain.StoreID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.StoreID, 0, len(m.zones))
	for id := range m.zones {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}

// ---- ReportStore ----

func (m *Store) SaveReport(ctx context.Context, reportID string, rows []domain.ReportRow) error {
	cp := make([]domain.ReportRow, len(rows))
	copy(cp, rows)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[reportID] = cp
	return nil
}

func (m *Store) RowsByReport(ctx context.Context, reportID string) ([]domain.ReportRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ReportRow, len(m.reports[reportID]))
	copy(out, m.reports[reportID])
	sort.Slice(out, func(i, j int) bool { return out[i].StoreID < out[j].StoreID })
	return out, nil
}

func (m *Store) ReportExists(ctx context.Context, reportID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.reports[reportID]
	return ok, nil
}
