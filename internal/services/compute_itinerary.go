package services

import (
	"cmp"
	"fmt"
	"hos-route-service/internal/domain"
	"math"
	"slices"
	"time"
)

// ComputeItinerary synthesizes fuel and hours-of-service stops along a driven
// route, merges them with the mandatory stops, places every stop on the route
// and resolves wall-clock times.
//
// Merge precedence follows insertion order: mandatory stops, then fuel stops,
// then HOS breaks. A later stop with identical coordinates replaces the type
// of an earlier one.
func ComputeItinerary(
	route domain.DrivenRoute,
	mandatory []domain.StopMarker,
	tripDate time.Time,
	rules domain.Rules,
) (*domain.Itinerary, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("compute itinerary: %w", err)
	}

	distances, durations := route.SegmentMetrics()
	if err := validateRoute(route.Geometry, distances, durations); err != nil {
		return nil, fmt.Errorf("compute itinerary: %w", err)
	}

	cumDist, cumTime := BuildProfiles(distances, durations)

	registry := NewStopRegistry()
	registry.Merge(mandatory...)
	registry.Merge(FuelStops(route.Geometry, cumDist, rules)...)
	registry.Merge(HOSBreaks(route.Geometry, cumTime, rules)...)

	events := SnapStops(route.Geometry, cumDist, cumTime, registry.Markers(), rules)

	// Stable so that stops sharing a mile marker keep registry order.
	slices.SortStableFunc(events, func(a, b domain.Event) int {
		return cmp.Compare(a.MileMarker, b.MileMarker)
	})

	return &domain.Itinerary{
		TripDate:        tripDate,
		Geometry:        route.Geometry,
		DistanceMeters:  route.DistanceMeters,
		DurationSeconds: route.DurationSeconds,
		Events:          AssignTimestamps(events, tripDate, rules),
	}, nil
}

func validateRoute(geometry []domain.Coordinates, distances, durations []float64) error {
	if len(geometry) == 0 {
		return fmt.Errorf("%w: empty geometry", domain.ErrInvalidRouteData)
	}

	if len(distances) != len(durations) {
		return fmt.Errorf(
			"%w: %d distances but %d durations",
			domain.ErrInvalidRouteData, len(distances), len(durations),
		)
	}

	if len(distances) != len(geometry)-1 {
		return fmt.Errorf(
			"%w: %d segments for %d vertices",
			domain.ErrInvalidRouteData, len(distances), len(geometry),
		)
	}

	for i := range distances {
		if !validMetric(distances[i]) || !validMetric(durations[i]) {
			return fmt.Errorf(
				"%w: segment %d has distance=%v duration=%v",
				domain.ErrInvalidRouteData, i, distances[i], durations[i],
			)
		}
	}

	return nil
}

func validMetric(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0)
}
