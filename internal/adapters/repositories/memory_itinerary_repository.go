package repositories

import (
	"context"
	"errors"
	"fmt"
	"hos-route-service/internal/domain"
	"sync"
)

// In-process ItineraryRepository used when no database is configured.
// Stored itineraries live for the process lifetime.
type MemoryItineraryRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Itinerary
}

func NewMemoryItineraryRepository() *MemoryItineraryRepository {
	return &MemoryItineraryRepository{items: make(map[string]domain.Itinerary)}
}

func (m *MemoryItineraryRepository) SaveItinerary(ctx context.Context, it *domain.Itinerary) error {
	if it == nil || it.ID == "" {
		return errors.New("save itinerary: itinerary must have an ID")
	}

	cp := *it
	cp.Events = append([]domain.Event(nil), it.Events...)
	cp.Geometry = append([]domain.Coordinates(nil), it.Geometry...)

	m.mu.Lock()
	m.items[it.ID] = cp
	m.mu.Unlock()
	return nil
}

func (m *MemoryItineraryRepository) GetItinerary(ctx context.Context, id string) (*domain.Itinerary, error) {
	m.mu.RLock()
	it, ok := m.items[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("get itinerary %s: %w", id, domain.ErrItineraryNotFound)
	}
	return &it, nil
}
