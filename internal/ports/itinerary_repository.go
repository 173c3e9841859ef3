package ports

import (
	"context"
	"hos-route-service/internal/domain"
)

// Port: a boundary for storing computed itineraries.
type ItineraryRepository interface {
	SaveItinerary(ctx context.Context, it *domain.Itinerary) error
	// Return domain.ErrItineraryNotFound when no itinerary has the given ID.
	GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error)
}
