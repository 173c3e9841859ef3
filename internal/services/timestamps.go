package services

import (
	"hos-route-service/internal/domain"
	"time"
)

// ShiftStart returns the wall-clock start of the driving shift on tripDate.
// Timestamps carry no zone semantics; UTC is used as a neutral clock.
func ShiftStart(tripDate time.Time, rules domain.Rules) time.Time {
	y, m, d := tripDate.Date()
	return time.Date(y, m, d, rules.ShiftStartHour, 0, 0, 0, time.UTC)
}

// AssignTimestamps resolves arrival and departure times from each event's
// time marker and the dwell of its type.
//
// Events are processed in the given order and are not sorted here; callers
// sort by mile marker first. The input slice is left untouched.
func AssignTimestamps(events []domain.Event, tripDate time.Time, rules domain.Rules) []domain.Event {
	start := ShiftStart(tripDate, rules)

	out := make([]domain.Event, len(events))
	for i, ev := range events {
		ev.ArrivalAt = start.Add(domain.HoursToDuration(ev.TimeMarkerHours))
		ev.DepartureAt = ev.ArrivalAt.Add(rules.DwellDuration(ev.Type))
		out[i] = ev
	}

	return out
}
