package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRouteData marks provider output that cannot be placed on a
	// cumulative profile (empty geometry, misaligned metrics, negative values).
	ErrInvalidRouteData = errors.New("invalid route data")

	// ErrRouteLookupFailed marks a failed call to the routing provider.
	ErrRouteLookupFailed = errors.New("route lookup failed")

	ErrItineraryNotFound = errors.New("itinerary not found")
)

// RouteLookupError carries the upstream status of a failed routing call.
type RouteLookupError struct {
	Status int
	Body   string
}

func (e *RouteLookupError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("route lookup failed with status %d", e.Status)
	}
	return fmt.Sprintf("route lookup failed with status %d: %s", e.Status, e.Body)
}

func (e *RouteLookupError) Is(target error) bool {
	return target == ErrRouteLookupFailed
}
