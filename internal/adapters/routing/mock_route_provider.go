package routing

import (
	"context"
	"fmt"
	"hos-route-service/internal/domain"
	"sync"
)

// MockRouteProvider returns a fixed route for any waypoints and records calls.
type MockRouteProvider struct {
	Route domain.DrivenRoute
	Err   error

	mu    sync.Mutex
	calls [][]domain.Coordinates
}

func NewMockRouteProvider(route domain.DrivenRoute) *MockRouteProvider {
	return &MockRouteProvider{Route: route}
}

func (p *MockRouteProvider) GetRoute(ctx context.Context, waypoints []domain.Coordinates) (domain.DrivenRoute, error) {
	p.mu.Lock()
	p.calls = append(p.calls, append([]domain.Coordinates(nil), waypoints...))
	p.mu.Unlock()

	if p.Err != nil {
		return domain.DrivenRoute{}, p.Err
	}
	if len(waypoints) < 2 {
		return domain.DrivenRoute{}, fmt.Errorf("mock route: got %d waypoints", len(waypoints))
	}
	return p.Route, nil
}

func (p *MockRouteProvider) Calls() [][]domain.Coordinates {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([][]domain.Coordinates(nil), p.calls...)
}
