package domain

// ReportRow is one store's line in a generated uptime report. The hour-bucket
// fields hold minutes; the day and week fields hold hours. The asymmetry is
// kept as produced by the interpolation, downstream consumers rely on the
// existing scale.
type ReportRow struct {
	ReportID         string  `json:"report_id"`
	StoreID          StoreID `json:"store_id"`
	UptimeLastHour   float64 `json:"uptime_last_hour"`
	UptimeLastDay    float64 `json:"uptime_last_day"`
	UptimeLastWeek   float64 `json:"uptime_last_week"`
	DowntimeLastHour float64 `json:"downtime_last_hour"`
	DowntimeLastDay  float64 `json:"downtime_last_day"`
	DowntimeLastWeek float64 `json:"downtime_last_week"`
}
