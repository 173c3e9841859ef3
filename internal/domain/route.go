package domain

// RouteLeg carries per-segment metrics for one leg of a driven route.
// Distances are meters, durations are seconds; index i connects vertex i to i+1
// of the leg.
type RouteLeg struct {
	Distances []float64
	Durations []float64
}

// DrivenRoute is the parsed output of a routing provider.
//
// Geometry is the full polyline in travel order. Legs are concatenated in
// order to obtain segment metrics aligned with Geometry.
type DrivenRoute struct {
	Geometry        []Coordinates
	Legs            []RouteLeg
	DistanceMeters  float64
	DurationSeconds float64
}

// Concatenate leg annotations in traversal order.
func (r DrivenRoute) SegmentMetrics() (distances []float64, durations []float64) {
	n := 0
	for _, l := range r.Legs {
		n += len(l.Distances)
	}

	distances = make([]float64, 0, n)
	durations = make([]float64, 0, n)
	for _, l := range r.Legs {
		distances = append(distances, l.Distances...)
		durations = append(durations, l.Durations...)
	}
	return distances, durations
}
