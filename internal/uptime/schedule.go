package uptime

import (
	"fmt"
	"time"

	"github.com/hamed0406/storewatch/internal/domain"
)

// Schedule holds one store's configured business hours keyed by weekday
// (0=Monday .. 6=Sunday, as stored). Intervals are kept as configured;
// overlapping ranges are not merged, each is tested independently.
type Schedule struct {
	days map[int][]window
}

// window is a local time-of-day range in seconds since midnight.
// Both ends are inclusive.
type window struct {
	start int
	end   int
}

func NewSchedule(intervals []domain.BusinessInterval) (*Schedule, error) {
	s := &Schedule{days: make(map[int][]window)}
	for _, iv := range intervals {
		start, err := parseClock(iv.StartLocal)
		if err != nil {
			return nil, fmt.Errorf("interval start: %w", err)
		}
		end, err := parseClock(iv.EndLocal)
		if err != nil {
			return nil, fmt.Errorf("interval end: %w", err)
		}
		s.days[iv.Weekday] = append(s.days[iv.Weekday], window{start: start, end: end})
	}
	return s, nil
}

func parseClock(v string) (int, error) {
	t, err := time.Parse("15:04:05", v)
	if err != nil {
		return 0, fmt.Errorf("parse clock %q: %w", v, err)
	}
	return t.Hour()*3600 + t.Minute()*60 + t.Second(), nil
}

// IsBusinessHour reports whether t's local time of day falls within any
// interval configured for t's weekday.
func (s *Schedule) IsBusinessHour(t time.Time) bool {
	day := (int(t.Weekday()) + 6) % 7 // time.Weekday is Sunday-based, data is Monday-based
	sec := t.Hour()*3600 + t.Minute()*60 + t.Second()
	for _, w := range s.days[day] {
		if w.start <= sec && sec <= w.end {
			return true
		}
	}
	return false
}

// BusinessDurationBetween approximates how much of [start, end) lies inside
// business hours by stepping forward in one-hour increments: every step
// whose start instant is a business hour contributes min(1h, remainder).
// Report math depends on this exact sampling, including the inclusive
// interval ends in IsBusinessHour; do not replace it with an exact
// interval intersection.
func (s *Schedule) BusinessDurationBetween(start, end time.Time) time.Duration {
	var total time.Duration
	for cur := start; cur.Before(end); cur = cur.Add(time.Hour) {
		if !s.IsBusinessHour(cur) {
			continue
		}
		step := end.Sub(cur)
		if step > time.Hour {
			step = time.Hour
		}
		total += step
	}
	return total
}

// WeeklyBusinessHours totals the configured business hours over the seven
// calendar days ending on now's day, each taken local midnight to 23:59:59.
// It is independent of any poll data.
func (s *Schedule) WeeklyBusinessHours(now time.Time) float64 {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	var total float64
	for i := 0; i < 7; i++ {
		back := time.Duration(i) * 24 * time.Hour
		total += s.BusinessDurationBetween(dayStart.Add(-back), dayEnd.Add(-back)).Hours()
	}
	return total
}
