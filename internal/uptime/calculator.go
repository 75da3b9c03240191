package uptime

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hamed0406/storewatch/internal/domain"
	"github.com/hamed0406/storewatch/internal/repo"
)

// Metrics holds the six report values for one store. The hour pair is in
// minutes; the day and week pairs are in hours.
type Metrics struct {
	UptimeLastHour   float64
	UptimeLastDay    float64
	UptimeLastWeek   float64
	DowntimeLastHour float64
	DowntimeLastDay  float64
	DowntimeLastWeek float64
}

// Calculator interpolates a store's sparse status polls into continuous
// uptime/downtime durations clipped to its business hours.
type Calculator struct {
	Polls repo.PollStore
	Hours repo.HoursStore
	Zones repo.TimezoneStore
}

// Compute evaluates one store over the trailing week ending at now.
// Stores without a configured timezone return (nil, nil): they are skipped,
// not failed. The evaluation instant is an explicit parameter so results
// stay deterministic under test and over archival datasets.
func (c *Calculator) Compute(ctx context.Context, id domain.StoreID, now time.Time) (*Metrics, error) {
	zone, err := c.Zones.Timezone(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("timezone for %s: %w", id, err)
	}
	if zone == "" {
		return nil, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("load zone %q for %s: %w", zone, id, err)
	}

	intervals, err := c.Hours.IntervalsByStore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("business hours for %s: %w", id, err)
	}
	sched, err := NewSchedule(intervals)
	if err != nil {
		return nil, fmt.Errorf("schedule for %s: %w", id, err)
	}

	localNow := now.In(loc)
	weekAgo := localNow.Add(-7 * 24 * time.Hour)

	polls, err := c.Polls.PollsBetween(ctx, id, weekAgo, localNow)
	if err != nil {
		return nil, fmt.Errorf("polls for %s: %w", id, err)
	}

	var m Metrics

	// Absent prior history is assumed active from the window start. The gap
	// before the first poll is owned by this seed, not by the poll itself.
	lastStatus := domain.StatusActive
	lastTS := weekAgo

	// accumulate attributes one gap's business-hour duration to the status in
	// force before it (forward-fill). The day and hour buckets are decided by
	// where the gap ends, never by splitting it, and the hour bucket is
	// capped at 60 minutes per gap.
	accumulate := func(gap time.Duration, status domain.Status, gapEnd time.Time) {
		hours := gap.Hours()
		sinceEnd := localNow.Sub(gapEnd)
		inDay := sinceEnd < 24*time.Hour
		inHour := sinceEnd <= time.Hour
		if status == domain.StatusActive {
			m.UptimeLastWeek += hours
			if inDay {
				m.UptimeLastDay += hours
			}
			if inHour {
				m.UptimeLastHour += math.Min(gap.Minutes(), 60)
			}
		} else {
			m.DowntimeLastWeek += hours
			if inDay {
				m.DowntimeLastDay += hours
			}
			if inHour {
				m.DowntimeLastHour += math.Min(gap.Minutes(), 60)
			}
		}
	}

	for _, p := range polls {
		ts := p.Timestamp.In(loc)
		accumulate(sched.BusinessDurationBetween(lastTS, ts), lastStatus, ts)
		lastStatus = p.Status
		lastTS = ts
	}
	// Tail gap up to the evaluation instant; it ends at localNow, so the day
	// and hour predicates hold trivially.
	accumulate(sched.BusinessDurationBetween(lastTS, localNow), lastStatus, localNow)

	reconcile(&m, sched.WeeklyBusinessHours(localNow))
	return &m, nil
}

// reconcile clips the buckets and squares the weekly pair against the total
// configured business hours of the trailing week. Downtime is trusted as
// measured; when the pair under-accumulates, uptime absorbs the remainder.
// The rule is directional, do not symmetrize it.
func reconcile(m *Metrics, totalHours float64) {
	m.UptimeLastWeek = math.Min(m.UptimeLastWeek, totalHours)
	m.DowntimeLastWeek = math.Min(m.DowntimeLastWeek, totalHours)
	if m.UptimeLastWeek+m.DowntimeLastWeek < totalHours {
		m.UptimeLastWeek = totalHours - m.DowntimeLastWeek
	}

	m.UptimeLastHour = round2(math.Min(m.UptimeLastHour, 60))
	m.DowntimeLastHour = round2(math.Min(m.DowntimeLastHour, 60))
	m.UptimeLastDay = round2(math.Min(m.UptimeLastDay, 24))
	m.DowntimeLastDay = round2(math.Min(m.DowntimeLastDay, 24))
	m.UptimeLastWeek = round2(m.UptimeLastWeek)
	m.DowntimeLastWeek = round2(m.DowntimeLastWeek)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
