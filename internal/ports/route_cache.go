package ports

import (
	"context"
	"hos-route-service/internal/domain"
)

// Cache of provider routes keyed by an opaque waypoint key.
type RouteCache interface {
	// Return the cached route and whether it was present.
	Get(ctx context.Context, key string) (domain.DrivenRoute, bool, error)
	Put(ctx context.Context, key string, route domain.DrivenRoute) error
}
