package ports

import (
	"context"
	"hos-route-service/internal/domain"
)

// Contract for retrieving a driven route through an ordered list of waypoints.
type RouteProvider interface {
	// Return the route geometry and per-segment metrics, traversing waypoints in order.
	GetRoute(ctx context.Context, waypoints []domain.Coordinates) (domain.DrivenRoute, error)
}
