package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/hamed0406/storewatch/internal/repo"
)

var csvHeader = []string{
	"store_id",
	"uptime_last_hour", "uptime_last_day", "uptime_last_week",
	"downtime_last_hour", "downtime_last_day", "downtime_last_week",
}

// WriteCSV renders every persisted row for one report into a fresh file
// under dir and returns its path. Rows come back ordered by store id, so
// repeated calls for the same report produce identical bytes; the caller
// deletes the file after delivery.
func WriteCSV(ctx context.Context, reports repo.ReportStore, reportID, dir string) (string, error) {
	rows, err := reports.RowsByReport(ctx, reportID)
	if err != nil {
		return "", fmt.Errorf("read report %s: %w", reportID, err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, "report_"+reportID+".csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	_ = w.Write(csvHeader)
	for _, r := range rows {
		_ = w.Write([]string{
			string(r.StoreID),
			minutesCol(r.UptimeLastHour),
			hoursCol(r.UptimeLastDay),
			hoursCol(r.UptimeLastWeek),
			minutesCol(r.DowntimeLastHour),
			hoursCol(r.DowntimeLastDay),
			hoursCol(r.DowntimeLastWeek),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}

// Hour-bucket columns keep their minimal decimal form: 60 renders as "60",
// not "60.00". Day and week columns always carry two decimals.
func minutesCol(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func hoursCol(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
