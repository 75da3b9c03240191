package domain

import "time"

type StoreID string

// Status is the observed state of a store at poll time.
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// StorePoll is one timestamped observation of a store, appended by the
// external ingestion pipeline. Timestamp is an absolute instant (stored UTC).
type StorePoll struct {
	StoreID   StoreID   `json:"store_id"`
	Timestamp time.Time `json:"timestamp_utc"`
	Status    Status    `json:"status"`
}

// BusinessInterval is one local time-of-day range a store is expected to be
// open on a given weekday. Weekday follows the source data: 0=Monday ..
// 6=Sunday. A store may have several intervals per weekday (split shifts)
// or none at all (closed that day; there is no implicit 24x7 default).
type BusinessInterval struct {
	StoreID    StoreID `json:"store_id"`
	Weekday    int     `json:"day"`
	StartLocal string  `json:"start_time_local"` // "15:04:05" clock string
	EndLocal   string  `json:"end_time_local"`
}
