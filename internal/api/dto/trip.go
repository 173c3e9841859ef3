package dto

import (
	"hos-route-service/internal/domain"
	"hos-route-service/internal/platform/polyline"
	"time"
)

// Wire layout for event timestamps.
const TimestampLayout = time.DateTime

type LocationRequest struct {
	Address string   `json:"address" validate:"required,max=200"`
	Type    string   `json:"type" validate:"required,max=50"`
	Lat     *float64 `json:"lat" validate:"required,latitude"`
	Lng     *float64 `json:"lng" validate:"required,longitude"`
}

func (l *LocationRequest) Coordinates() domain.Coordinates {
	return domain.Coordinates{Lon: *l.Lng, Lat: *l.Lat}
}

type TripRequest struct {
	Date            string           `json:"date" validate:"required,datetime=2006-01-02"`
	CurrentLocation *LocationRequest `json:"currentLocation" validate:"required"`
	PickupLocation  *LocationRequest `json:"pickupLocation" validate:"required"`
	DropoffLocation *LocationRequest `json:"dropoffLocation" validate:"required"`
}

type BatchTripRequest struct {
	Trips []*TripRequest `json:"trips" validate:"required,min=1,max=20,dive,required"`
}

type EventResponse struct {
	Type          string     `json:"type"`
	Location      [2]float64 `json:"location"`
	MileMarker    float64    `json:"mile_marker"`
	TimeMarkerH   float64    `json:"time_marker_h"`
	ArrivalTime   string     `json:"arrival_time"`
	DepartureTime string     `json:"departure_time"`
}

type RouteResponse struct {
	ItineraryID     string          `json:"itinerary_id"`
	TripDate        string          `json:"date"`
	Path            [][2]float64    `json:"path"`
	PathPolyline    string          `json:"path_polyline"`
	DistanceMeters  float64         `json:"distance_meters"`
	DurationSeconds float64         `json:"duration_seconds"`
	Events          []EventResponse `json:"events"`
}

type BatchRouteResponse struct {
	Routes []RouteResponse `json:"routes"`
}

func NewRouteResponse(it *domain.Itinerary) RouteResponse {
	path := make([][2]float64, 0, len(it.Geometry))
	for _, c := range it.Geometry {
		path = append(path, [2]float64{c.Lon, c.Lat})
	}

	events := make([]EventResponse, 0, len(it.Events))
	for _, ev := range it.Events {
		events = append(events, EventResponse{
			Type:          string(ev.Type),
			Location:      [2]float64{ev.Location.Lon, ev.Location.Lat},
			MileMarker:    ev.MileMarker,
			TimeMarkerH:   ev.TimeMarkerHours,
			ArrivalTime:   ev.ArrivalAt.Format(TimestampLayout),
			DepartureTime: ev.DepartureAt.Format(TimestampLayout),
		})
	}

	return RouteResponse{
		ItineraryID:     it.ID,
		TripDate:        it.TripDate.Format("2006-01-02"),
		Path:            path,
		PathPolyline:    polyline.Encode(it.Geometry),
		DistanceMeters:  it.DistanceMeters,
		DurationSeconds: it.DurationSeconds,
		Events:          events,
	}
}
