package services

import (
	"hos-route-service/internal/domain"
)

// FuelStops places a fuel stop at every full fuel interval of distance
// travelled, strictly before the end of the route.
func FuelStops(geometry []domain.Coordinates, cumDist []float64, rules domain.Rules) []domain.StopMarker {
	total := cumDist[len(cumDist)-1]

	stops := []domain.StopMarker{}
	for marker := rules.FuelStopIntervalMeters; marker < total; marker += rules.FuelStopIntervalMeters {
		stops = append(stops, domain.StopMarker{
			Type:     domain.StopFuel,
			Location: positionAt(geometry, cumDist, marker),
		})
	}

	return stops
}

// hosWindow is the driving window between two breaks.
//
// With drivenHours below the daily limit the window is waiting for a short
// rest; at or above it the next break is a full duty reset.
type hosWindow struct {
	thresholdSeconds float64
	drivenHours      float64
}

func newHOSWindow(rules domain.Rules) hosWindow {
	return hosWindow{
		thresholdSeconds: rules.BreakThresholdHours * rules.SecondsPerHour,
		drivenHours:      rules.BreakThresholdHours,
	}
}

func (w hosWindow) resetPending(rules domain.Rules) bool {
	return w.drivenHours >= rules.DailyDrivingLimitHours
}

func (w hosWindow) breakType(rules domain.Rules) domain.StopType {
	if w.resetPending(rules) {
		return domain.StopDutyBreak
	}
	return domain.StopRest
}

// next advances past the break taken at the current threshold.
func (w hosWindow) next(rules domain.Rules) hosWindow {
	if w.resetPending(rules) {
		return hosWindow{
			thresholdSeconds: w.thresholdSeconds + rules.BreakThresholdHours*rules.SecondsPerHour,
			drivenHours:      rules.BreakThresholdHours,
		}
	}

	remaining := rules.DailyDrivingLimitHours - rules.BreakThresholdHours
	return hosWindow{
		thresholdSeconds: w.thresholdSeconds + remaining*rules.SecondsPerHour,
		drivenHours:      rules.DailyDrivingLimitHours,
	}
}

// HOSBreaks places hours-of-service breaks along the cumulative time profile:
// a short rest once the break threshold is driven, then a duty reset when the
// daily limit is reached, repeating until the end of the route.
func HOSBreaks(geometry []domain.Coordinates, cumTime []float64, rules domain.Rules) []domain.StopMarker {
	total := cumTime[len(cumTime)-1]

	stops := []domain.StopMarker{}
	for w := newHOSWindow(rules); w.thresholdSeconds < total; w = w.next(rules) {
		stops = append(stops, domain.StopMarker{
			Type:     w.breakType(rules),
			Location: positionAt(geometry, cumTime, w.thresholdSeconds),
		})
	}

	return stops
}
