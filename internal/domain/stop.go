package domain

// StopType classifies an itinerary event.
type StopType string

const (
	StopStart     StopType = "start"
	StopPickup    StopType = "pickup"
	StopDropoff   StopType = "dropoff"
	StopFuel      StopType = "fuel_stop"
	StopRest      StopType = "rest_30m"
	StopDutyBreak StopType = "duty_break"
)

// StopMarker is a typed geographic position that has not been placed on a
// route yet.
type StopMarker struct {
	Type     StopType
	Location Coordinates
}
