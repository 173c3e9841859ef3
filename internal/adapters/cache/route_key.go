package cache

import (
	"encoding/json"
	"fmt"
	"hos-route-service/internal/domain"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// RouteKey derives a stable cache key for a routing profile and waypoint list.
func RouteKey(profile string, waypoints []domain.Coordinates) string {
	var b strings.Builder
	b.WriteString(profile)
	for _, w := range waypoints {
		b.WriteByte(';')
		b.WriteString(strconv.FormatFloat(w.Lon, 'f', -1, 64))
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(w.Lat, 'f', -1, 64))
	}
	return fmt.Sprintf("route:%s:%016x", profile, xxhash.Sum64String(b.String()))
}

type cachedLeg struct {
	Distances []float64 `json:"distances"`
	Durations []float64 `json:"durations"`
}

type cachedRoute struct {
	Geometry        [][2]float64 `json:"geometry"`
	Legs            []cachedLeg  `json:"legs"`
	DistanceMeters  float64      `json:"distance_meters"`
	DurationSeconds float64      `json:"duration_seconds"`
}

func encodeRoute(r domain.DrivenRoute) ([]byte, error) {
	c := cachedRoute{
		Geometry:        make([][2]float64, 0, len(r.Geometry)),
		Legs:            make([]cachedLeg, 0, len(r.Legs)),
		DistanceMeters:  r.DistanceMeters,
		DurationSeconds: r.DurationSeconds,
	}
	for _, p := range r.Geometry {
		c.Geometry = append(c.Geometry, [2]float64{p.Lon, p.Lat})
	}
	for _, l := range r.Legs {
		c.Legs = append(c.Legs, cachedLeg{Distances: l.Distances, Durations: l.Durations})
	}

	b, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode cached route: %w", err)
	}
	return b, nil
}

func decodeRoute(b []byte) (domain.DrivenRoute, error) {
	var c cachedRoute
	if err := json.Unmarshal(b, &c); err != nil {
		return domain.DrivenRoute{}, fmt.Errorf("decode cached route: %w", err)
	}

	r := domain.DrivenRoute{
		Geometry:        make([]domain.Coordinates, 0, len(c.Geometry)),
		Legs:            make([]domain.RouteLeg, 0, len(c.Legs)),
		DistanceMeters:  c.DistanceMeters,
		DurationSeconds: c.DurationSeconds,
	}
	for _, p := range c.Geometry {
		r.Geometry = append(r.Geometry, domain.Coordinates{Lon: p[0], Lat: p[1]})
	}
	for _, l := range c.Legs {
		r.Legs = append(r.Legs, domain.RouteLeg{Distances: l.Distances, Durations: l.Durations})
	}
	return r, nil
}
