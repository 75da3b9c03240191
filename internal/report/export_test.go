package report

import (
	"context"
	"os"
	"testing"

	"github.com/hamed0406/storewatch/internal/domain"
	"github.com/hamed0406/storewatch/internal/repo/memory"
)

func TestWriteCSV_FormattingAndColumnOrder(t *testing.T) {
	ctx := context.Background()
	m := memory.New()
	rows := []domain.ReportRow{
		{
			ReportID: "R1", StoreID: "store-b",
			UptimeLastHour: 60, UptimeLastDay: 8, UptimeLastWeek: 8,
			DowntimeLastHour: 59.5, DowntimeLastDay: 1, DowntimeLastWeek: 1.5,
		},
		{
			ReportID: "R1", StoreID: "store-a",
			UptimeLastHour: 0, UptimeLastDay: 0, UptimeLastWeek: 0,
			DowntimeLastHour: 0, DowntimeLastDay: 0, DowntimeLastWeek: 0,
		},
	}
	if err := m.SaveReport(ctx, "R1", rows); err != nil {
		t.Fatalf("SaveReport: %v", err)
	}

	path, err := WriteCSV(ctx, m, "R1", t.TempDir())
	if err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}

	// Hour columns keep the minimal decimal form; day/week columns always
	// two decimals. Rows come out sorted by store id.
	want := "store_id,uptime_last_hour,uptime_last_day,uptime_last_week,downtime_last_hour,downtime_last_day,downtime_last_week\n" +
		"store-a,0,0.00,0.00,0,0.00,0.00\n" +
		"store-b,60,8.00,8.00,59.5,1.00,1.50\n"
	if string(got) != want {
		t.Fatalf("csv mismatch:\n got: %q\nwant: %q", string(got), want)
	}
}

// Regeneration is idempotent: repeated exports of the same report are
// byte-identical.
func TestWriteCSV_Idempotent(t *testing.T) {
	ctx := context.Background()
	m := memory.New()
	_ = m.SaveReport(ctx, "R1", []domain.ReportRow{
		{ReportID: "R1", StoreID: "s1", UptimeLastHour: 12.25, UptimeLastDay: 3.5, UptimeLastWeek: 20.75},
	})

	dir := t.TempDir()
	p1, err := WriteCSV(ctx, m, "R1", dir)
	if err != nil {
		t.Fatalf("first WriteCSV: %v", err)
	}
	b1, _ := os.ReadFile(p1)
	_ = os.Remove(p1)

	p2, err := WriteCSV(ctx, m, "R1", dir)
	if err != nil {
		t.Fatalf("second WriteCSV: %v", err)
	}
	b2, _ := os.ReadFile(p2)

	if string(b1) != string(b2) {
		t.Fatalf("exports differ:\n%q\n%q", b1, b2)
	}
}
