package domain

import "time"

// Event is a stop placed on the route with relative markers and wall-clock times.
// Location is the original stop coordinate, not the route vertex it snapped to.
type Event struct {
	Type            StopType
	Location        Coordinates
	MileMarker      float64
	TimeMarkerHours float64
	ArrivalAt       time.Time
	DepartureAt     time.Time
}

// Itinerary is the resolved compliance plan for one trip.
// It is immutable planning data; events are ordered by mile marker.
type Itinerary struct {
	ID              string
	TripDate        time.Time
	Geometry        []Coordinates
	DistanceMeters  float64
	DurationSeconds float64
	Events          []Event
	CreatedAt       time.Time
}
