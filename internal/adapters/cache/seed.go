package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/ports"
	"os"
)

// RouteSeed is one recorded provider route keyed by its waypoints.
type RouteSeed struct {
	Waypoints [][2]float64 `json:"waypoints"`
	Route     cachedRoute  `json:"route"`
}

// SeedFromJSON loads recorded routes from a JSON file into c so that known
// trips resolve without calling the routing provider.
func SeedFromJSON(ctx context.Context, c ports.RouteCache, profile string, jsonPath string) (int, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return 0, fmt.Errorf("seed routes: read %q: %w", jsonPath, err)
	}

	var data []RouteSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return 0, fmt.Errorf("seed routes: parse json: %w", err)
	}

	for i, item := range data {
		if len(item.Waypoints) < 2 {
			return i, fmt.Errorf("seed routes: item at index %d: at least two waypoints are required", i+1)
		}

		waypoints := make([]domain.Coordinates, 0, len(item.Waypoints))
		for _, w := range item.Waypoints {
			waypoints = append(waypoints, domain.Coordinates{Lon: w[0], Lat: w[1]})
		}

		raw, err := json.Marshal(item.Route)
		if err != nil {
			return i, fmt.Errorf("seed routes: item at index %d: %w", i+1, err)
		}
		route, err := decodeRoute(raw)
		if err != nil {
			return i, fmt.Errorf("seed routes: item at index %d: %w", i+1, err)
		}

		if err := c.Put(ctx, RouteKey(profile, waypoints), route); err != nil {
			return i, fmt.Errorf("seed routes: item at index %d: %w", i+1, err)
		}
	}

	return len(data), nil
}
