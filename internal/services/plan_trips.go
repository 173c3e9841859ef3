package services

import (
	"context"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/ports"

	"golang.org/x/sync/errgroup"
)

const defaultPlanConcurrency = 5

// PlanTrips plans several independent trips concurrently, bounded by
// concurrency. Results are returned in request order. The first failure
// cancels the remaining lookups.
func PlanTrips(
	ctx context.Context,
	reqs []PlanTripRequest,
	provider ports.RouteProvider,
	repo ports.ItineraryRepository,
	rules domain.Rules,
	concurrency int,
) ([]*domain.Itinerary, error) {
	if concurrency < 1 {
		concurrency = defaultPlanConcurrency
	}

	out := make([]*domain.Itinerary, len(reqs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, req := range reqs {
		g.Go(func() error {
			it, err := PlanTrip(ctx, req, provider, repo, rules)
			if err != nil {
				return fmt.Errorf("plan trips: trip #%d: %w", i+1, err)
			}
			out[i] = it
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
