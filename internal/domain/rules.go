package domain

import (
	"fmt"
	"math"
	"time"
)

const (
	MetersPerMile  = 1609.34
	SecondsPerHour = 3600
)

// Rules holds the regulatory and unit parameters the itinerary engine runs with.
// A Rules value is treated as immutable once built; use Clone before editing
// Dwell on a shared value.
type Rules struct {
	FuelStopIntervalMeters float64
	BreakThresholdHours    float64
	DailyDrivingLimitHours float64
	MetersPerMile          float64
	SecondsPerHour         float64
	ShiftStartHour         int
	Dwell                  map[StopType]float64
}

// Property-carrying defaults: fuel every 1000 miles, a 30 minute rest after
// 8 hours and a 10 hour reset at the 11 hour daily limit.
func DefaultRules() Rules {
	return Rules{
		FuelStopIntervalMeters: 1000 * MetersPerMile,
		BreakThresholdHours:    8,
		DailyDrivingLimitHours: 11,
		MetersPerMile:          MetersPerMile,
		SecondsPerHour:         SecondsPerHour,
		ShiftStartHour:         8,
		Dwell: map[StopType]float64{
			StopStart:     0,
			StopPickup:    1,
			StopDropoff:   1,
			StopFuel:      0.5,
			StopRest:      0.5,
			StopDutyBreak: 10,
		},
	}
}

func (r Rules) Clone() Rules {
	out := r
	out.Dwell = make(map[StopType]float64, len(r.Dwell))
	for k, v := range r.Dwell {
		out.Dwell[k] = v
	}
	return out
}

// DwellDuration returns how long a stop of type t occupies the driver.
// Unknown types dwell for zero.
func (r Rules) DwellDuration(t StopType) time.Duration {
	return HoursToDuration(r.Dwell[t])
}

// Validate rejects parameter sets the engine cannot apply: non-positive
// intervals or unit factors, a shift start outside the day, negative dwell,
// and a daily limit that leaves no driving between the short rest and the
// duty reset.
func (r Rules) Validate() error {
	if !(r.FuelStopIntervalMeters > 0) {
		return fmt.Errorf("rules: fuel stop interval must be positive, got %v", r.FuelStopIntervalMeters)
	}
	if !(r.BreakThresholdHours > 0) {
		return fmt.Errorf("rules: break threshold must be positive, got %v", r.BreakThresholdHours)
	}
	if r.DailyDrivingLimitHours <= r.BreakThresholdHours {
		return fmt.Errorf(
			"rules: daily driving limit (%v) must exceed break threshold (%v)",
			r.DailyDrivingLimitHours, r.BreakThresholdHours,
		)
	}
	if !(r.MetersPerMile > 0) || !(r.SecondsPerHour > 0) {
		return fmt.Errorf("rules: unit factors must be positive")
	}
	if r.ShiftStartHour < 0 || r.ShiftStartHour > 23 {
		return fmt.Errorf("rules: shift start hour must be within 0..23, got %d", r.ShiftStartHour)
	}
	for t, h := range r.Dwell {
		if h < 0 || math.IsNaN(h) {
			return fmt.Errorf("rules: dwell for %q must be non-negative", t)
		}
	}
	return nil
}

// HoursToDuration converts fractional hours, rounding to the microsecond.
func HoursToDuration(h float64) time.Duration {
	us := math.Round(h * float64(time.Hour/time.Microsecond))
	return time.Duration(us) * time.Microsecond
}
