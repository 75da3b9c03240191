package memory

import (
	"context"
	"testing"
	"time"

	"github.com/hamed0406/storewatch/internal/domain"
)

func TestMemoryStore_PollsBetween_FiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := New()

	base := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	// inserted out of order on purpose
	s.AddPoll(domain.StorePoll{StoreID: "S1", Timestamp: base.Add(2 * time.Hour), Status: domain.StatusActive})
	s.AddPoll(domain.StorePoll{StoreID: "S1", Timestamp: base, Status: domain.StatusInactive})
	s.AddPoll(domain.StorePoll{StoreID: "S1", Timestamp: base.Add(-time.Hour), Status: domain.StatusActive})
	s.AddPoll(domain.StorePoll{StoreID: "S2", Timestamp: base, Status: domain.StatusActive})

	got, err := s.PollsBetween(ctx, "S1", base, base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("PollsBetween: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 polls in window, got %d", len(got))
	}
	if !got[0].Timestamp.Equal(base) || !got[1].Timestamp.Equal(base.Add(2*time.Hour)) {
		t.Fatalf("polls not ascending: %+v", got)
	}

	// bounds are inclusive on both ends
	got, err = s.PollsBetween(ctx, "S1", base.Add(-time.Hour), base)
	if err != nil {
		t.Fatalf("PollsBetween: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("inclusive bounds: expected 2, got %d", len(got))
	}
}

func TestMemoryStore_Timezones(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.SetTimezone("S2", "Asia/Kolkata")
	s.SetTimezone("S1", "UTC")

	zone, err := s.Timezone(ctx, "S2")
	if err != nil || zone != "Asia/Kolkata" {
		t.Fatalf("Timezone: %q err=%v", zone, err)
	}
	// not configured: empty string, nil error
	zone, err = s.Timezone(ctx, "S3")
	if err != nil || zone != "" {
		t.Fatalf("missing zone: %q err=%v", zone, err)
	}

	ids, err := s.StoreIDs(ctx)
	if err != nil {
		t.Fatalf("StoreIDs: %v", err)
	}
	if len(ids) != 2 || ids[0] != "S1" || ids[1] != "S2" {
		t.Fatalf("ids not sorted: %v", ids)
	}
}

func TestMemoryStore_Reports(t *testing.T) {
	ctx := context.Background()
	s := New()

	exists, err := s.ReportExists(ctx, "R1")
	if err != nil || exists {
		t.Fatalf("fresh store: exists=%v err=%v", exists, err)
	}

	rows := []domain.ReportRow{
		{ReportID: "R1", StoreID: "b"},
		{ReportID: "R1", StoreID: "a"},
	}
	if err := s.SaveReport(ctx, "R1", rows); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	// mutating the caller's slice must not affect the stored rows
	rows[0].StoreID = "mutated"

	got, err := s.RowsByReport(ctx, "R1")
	if err != nil {
		t.Fatalf("RowsByReport: %v", err)
	}
	if len(got) != 2 || got[0].StoreID != "a" || got[1].StoreID != "b" {
		t.Fatalf("rows not sorted by store id: %+v", got)
	}

	exists, err = s.ReportExists(ctx, "R1")
	if err != nil || !exists {
		t.Fatalf("after save: exists=%v err=%v", exists, err)
	}
}
