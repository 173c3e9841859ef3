package services

// BuildProfiles turns per-segment distance and duration metrics into
// cumulative profiles aligned with the route's vertices.
// Each profile starts at 0 and has one more element than its input.
func BuildProfiles(distances, durations []float64) (cumDist []float64, cumTime []float64) {
	return cumulative(distances), cumulative(durations)
}

func cumulative(segments []float64) []float64 {
	out := make([]float64, len(segments)+1)
	for i, v := range segments {
		out[i+1] = out[i] + v
	}
	return out
}
