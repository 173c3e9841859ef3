package services

import (
	"hos-route-service/internal/domain"
	"sort"
)

// locate returns the leftmost index at which threshold could be inserted
// into the non-decreasing profile.
func locate(profile []float64, threshold float64) int {
	return sort.SearchFloat64s(profile, threshold)
}

// InterpolatePosition places threshold on the segment ending at vertex idx.
//
// Indices outside (0, len(geometry)) fall back to the last vertex. A zero-length
// segment resolves to its start vertex.
func InterpolatePosition(
	geometry []domain.Coordinates,
	profile []float64,
	idx int,
	threshold float64,
) domain.Coordinates {
	if idx <= 0 || idx >= len(geometry) {
		return geometry[len(geometry)-1]
	}

	prev := profile[idx-1]
	span := profile[idx] - prev

	ratio := 0.0
	if span > 0 {
		ratio = (threshold - prev) / span
	}

	a := geometry[idx-1]
	b := geometry[idx]
	return domain.Coordinates{
		Lon: a.Lon + (b.Lon-a.Lon)*ratio,
		Lat: a.Lat + (b.Lat-a.Lat)*ratio,
	}
}

// positionAt combines the binary search and the interpolation step.
func positionAt(geometry []domain.Coordinates, profile []float64, threshold float64) domain.Coordinates {
	return InterpolatePosition(geometry, profile, locate(profile, threshold), threshold)
}
