package services

import (
	"context"
	"errors"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/platform/obs"
	"hos-route-service/internal/ports"
	"time"

	"github.com/google/uuid"
)

type PlanTripRequest struct {
	Current domain.Coordinates
	Pickup  domain.Coordinates
	Dropoff domain.Coordinates
	Date    time.Time
}

// Mandatory stops in the order they are merged into the registry.
func (r PlanTripRequest) MandatoryStops() []domain.StopMarker {
	return []domain.StopMarker{
		{Type: domain.StopStart, Location: r.Current},
		{Type: domain.StopPickup, Location: r.Pickup},
		{Type: domain.StopDropoff, Location: r.Dropoff},
	}
}

// PlanTrip fetches the driven route current -> pickup -> dropoff, computes the
// compliance itinerary and stores it when a repository is configured.
func PlanTrip(
	ctx context.Context,
	req PlanTripRequest,
	provider ports.RouteProvider,
	repo ports.ItineraryRepository,
	rules domain.Rules,
) (_ *domain.Itinerary, err error) {
	defer obs.Time(ctx, "services.PlanTrip")(&err)

	if provider == nil {
		return nil, errors.New("plan trip: route provider must be non-nil")
	}

	if req.Date.IsZero() {
		return nil, errors.New("plan trip: trip date is required")
	}

	route, err := provider.GetRoute(ctx, []domain.Coordinates{req.Current, req.Pickup, req.Dropoff})
	if err != nil {
		return nil, fmt.Errorf("plan trip: get route: %w", err)
	}

	it, err := ComputeItinerary(route, req.MandatoryStops(), req.Date, rules)
	if err != nil {
		return nil, fmt.Errorf("plan trip: %w", err)
	}

	it.ID = uuid.NewString()
	it.CreatedAt = time.Now().UTC()

	if repo != nil {
		if err := repo.SaveItinerary(ctx, it); err != nil {
			return nil, fmt.Errorf("plan trip: save itinerary %s: %w", it.ID, err)
		}
	}

	return it, nil
}
