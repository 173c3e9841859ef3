package services

import (
	"hos-route-service/internal/domain"
	"math"
	"strconv"
)

// SnapStops places every marker on its nearest route vertex and reports the
// cumulative distance (miles) and time (hours) at that vertex.
//
// The scan is exhaustive; equidistant vertices resolve to the lowest index.
// Events keep the marker's own coordinates.
func SnapStops(
	geometry []domain.Coordinates,
	cumDist []float64,
	cumTime []float64,
	markers []domain.StopMarker,
	rules domain.Rules,
) []domain.Event {
	events := make([]domain.Event, 0, len(markers))
	for _, m := range markers {
		best := nearestVertex(geometry, m.Location)

		events = append(events, domain.Event{
			Type:            m.Type,
			Location:        m.Location,
			MileMarker:      round2(cumDist[best] / rules.MetersPerMile),
			TimeMarkerHours: round2(cumTime[best] / rules.SecondsPerHour),
		})
	}

	return events
}

func nearestVertex(geometry []domain.Coordinates, p domain.Coordinates) int {
	best := 0
	bestDist := math.Inf(1)
	for i, v := range geometry {
		if d := v.SquaredDistance(p); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// round2 rounds the exact binary value to two decimals, half to even.
func round2(v float64) float64 {
	r, _ := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 2, 64), 64)
	return r
}
