package services

import (
	"hos-route-service/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildProfiles(t *testing.T) {
	cumDist, cumTime := BuildProfiles([]float64{10, 0, 5.5}, []float64{60, 30, 0})

	assert.Equal(t, []float64{0, 10, 10, 15.5}, cumDist)
	assert.Equal(t, []float64{0, 60, 90, 90}, cumTime)

	for i := 1; i < len(cumDist); i++ {
		assert.GreaterOrEqual(t, cumDist[i], cumDist[i-1])
		assert.GreaterOrEqual(t, cumTime[i], cumTime[i-1])
	}
}

func TestBuildProfilesSingleVertex(t *testing.T) {
	cumDist, cumTime := BuildProfiles(nil, nil)
	assert.Equal(t, []float64{0}, cumDist)
	assert.Equal(t, []float64{0}, cumTime)
}

func TestInterpolatePosition(t *testing.T) {
	geometry := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 10, Lat: 10}}
	profile := []float64{0, 10}

	t.Run("midpoint", func(t *testing.T) {
		got := InterpolatePosition(geometry, profile, 1, 5)
		assert.InDelta(t, 5, got.Lon, 1e-9)
		assert.InDelta(t, 5, got.Lat, 1e-9)
	})

	t.Run("index out of range returns last vertex", func(t *testing.T) {
		assert.Equal(t, geometry[1], InterpolatePosition(geometry, profile, 0, 5))
		assert.Equal(t, geometry[1], InterpolatePosition(geometry, profile, 2, 5))
		assert.Equal(t, geometry[1], InterpolatePosition(geometry, profile, -1, 5))
	})

	t.Run("zero length segment snaps to start vertex", func(t *testing.T) {
		g := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 1, Lat: 1}, {Lon: 2, Lat: 2}}
		got := InterpolatePosition(g, []float64{0, 4, 4}, 2, 4)
		assert.Equal(t, g[1], got)
	})
}

func TestLocateIsLeftmost(t *testing.T) {
	profile := []float64{0, 5, 5, 10}
	assert.Equal(t, 1, locate(profile, 5))
	assert.Equal(t, 3, locate(profile, 7))
	assert.Equal(t, 4, locate(profile, 11))
}

// straightRoute builds n evenly spaced vertices along the latitude axis.
func straightRoute(n int, segMeters, segSeconds float64) ([]domain.Coordinates, []float64, []float64) {
	geometry := make([]domain.Coordinates, n)
	distances := make([]float64, n-1)
	durations := make([]float64, n-1)
	for i := range geometry {
		geometry[i] = domain.Coordinates{Lon: 0, Lat: float64(i)}
	}
	for i := range distances {
		distances[i] = segMeters
		durations[i] = segSeconds
	}
	return geometry, distances, durations
}

func TestFuelStopsCount(t *testing.T) {
	rules := domain.DefaultRules()
	// A whole-number interval keeps the threshold sums exact.
	rules.FuelStopIntervalMeters = 1000
	inc := rules.FuelStopIntervalMeters

	tests := []struct {
		name     string
		total    float64
		expected int
	}{
		{"shorter than one interval", 0.5 * inc, 0},
		{"exactly one interval", inc, 0},
		{"exactly two intervals", 2 * inc, 1},
		{"exactly three intervals", 3 * inc, 2},
		{"between three and four", 3.5 * inc, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geometry := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 10}}
			cumDist, _ := BuildProfiles([]float64{tt.total}, []float64{0})

			stops := FuelStops(geometry, cumDist, rules)
			assert.Len(t, stops, tt.expected)
			for _, s := range stops {
				assert.Equal(t, domain.StopFuel, s.Type)
			}
		})
	}
}

func TestFuelStopsAreInterpolated(t *testing.T) {
	rules := domain.DefaultRules()
	geometry := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 10}}
	cumDist, _ := BuildProfiles([]float64{4 * rules.FuelStopIntervalMeters}, []float64{0})

	stops := FuelStops(geometry, cumDist, rules)
	require.Len(t, stops, 3)
	assert.InDelta(t, 2.5, stops[0].Location.Lat, 1e-9)
	assert.InDelta(t, 5.0, stops[1].Location.Lat, 1e-9)
	assert.InDelta(t, 7.5, stops[2].Location.Lat, 1e-9)
}

func TestHOSBreaksCycle(t *testing.T) {
	rules := domain.DefaultRules()
	// One vertex per hour, 20 hours of driving.
	geometry, distances, durations := straightRoute(21, 1000, 3600)
	_, cumTime := BuildProfiles(distances, durations)

	stops := HOSBreaks(geometry, cumTime, rules)
	require.Len(t, stops, 3)

	assert.Equal(t, domain.StopRest, stops[0].Type)
	assert.InDelta(t, 8, stops[0].Location.Lat, 1e-9)

	assert.Equal(t, domain.StopDutyBreak, stops[1].Type)
	assert.InDelta(t, 11, stops[1].Location.Lat, 1e-9)

	assert.Equal(t, domain.StopRest, stops[2].Type)
	assert.InDelta(t, 19, stops[2].Location.Lat, 1e-9)
}

func TestHOSWindowTransitions(t *testing.T) {
	rules := domain.DefaultRules()

	w := newHOSWindow(rules)
	assert.Equal(t, 8*3600.0, w.thresholdSeconds)
	assert.False(t, w.resetPending(rules))

	w = w.next(rules)
	assert.Equal(t, 11*3600.0, w.thresholdSeconds)
	assert.True(t, w.resetPending(rules))
	assert.Equal(t, domain.StopDutyBreak, w.breakType(rules))

	w = w.next(rules)
	assert.Equal(t, 19*3600.0, w.thresholdSeconds)
	assert.Equal(t, domain.StopRest, w.breakType(rules))
}

func TestHOSBreaksAlternateRules(t *testing.T) {
	rules := domain.DefaultRules()
	rules.BreakThresholdHours = 2
	rules.DailyDrivingLimitHours = 3

	geometry, distances, durations := straightRoute(8, 1000, 3600)
	_, cumTime := BuildProfiles(distances, durations)

	var types []domain.StopType
	for _, s := range HOSBreaks(geometry, cumTime, rules) {
		types = append(types, s.Type)
	}
	// Breaks at hours 2, 3, 5, 6.
	assert.Equal(t, []domain.StopType{
		domain.StopRest, domain.StopDutyBreak, domain.StopRest, domain.StopDutyBreak,
	}, types)
}

func TestStopRegistryLaterMergeWins(t *testing.T) {
	shared := domain.Coordinates{Lon: 1, Lat: 1}

	r := NewStopRegistry()
	r.Merge(
		domain.StopMarker{Type: domain.StopStart, Location: domain.Coordinates{Lon: 0, Lat: 0}},
		domain.StopMarker{Type: domain.StopPickup, Location: shared},
	)
	r.Merge(domain.StopMarker{Type: domain.StopFuel, Location: shared})
	r.Merge(domain.StopMarker{Type: domain.StopRest, Location: domain.Coordinates{Lon: 2, Lat: 2}})

	markers := r.Markers()
	require.Equal(t, 3, r.Len())
	assert.Equal(t, domain.StopStart, markers[0].Type)
	assert.Equal(t, domain.StopFuel, markers[1].Type, "synthetic stop overwrites mandatory stop")
	assert.Equal(t, shared, markers[1].Location)
	assert.Equal(t, domain.StopRest, markers[2].Type)
}

func TestSnapStops(t *testing.T) {
	rules := domain.DefaultRules()
	geometry, distances, durations := straightRoute(3, rules.MetersPerMile*10, 1800)
	cumDist, cumTime := BuildProfiles(distances, durations)

	t.Run("equidistant queries snap to the same vertex", func(t *testing.T) {
		markers := []domain.StopMarker{
			{Type: domain.StopPickup, Location: domain.Coordinates{Lon: 0.1, Lat: 1}},
			{Type: domain.StopDropoff, Location: domain.Coordinates{Lon: -0.1, Lat: 1}},
		}
		events := SnapStops(geometry, cumDist, cumTime, markers, rules)
		require.Len(t, events, 2)

		assert.Equal(t, 10.0, events[0].MileMarker)
		assert.Equal(t, 0.5, events[0].TimeMarkerHours)
		assert.Equal(t, events[0].MileMarker, events[1].MileMarker)
		assert.Equal(t, events[0].TimeMarkerHours, events[1].TimeMarkerHours)
		assert.Equal(t, markers[1].Location, events[1].Location, "events keep the query coordinate")
	})

	t.Run("ties resolve to the lowest vertex", func(t *testing.T) {
		markers := []domain.StopMarker{{Type: domain.StopFuel, Location: domain.Coordinates{Lon: 0, Lat: 0.5}}}
		events := SnapStops(geometry, cumDist, cumTime, markers, rules)
		assert.Equal(t, 0.0, events[0].MileMarker)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, SnapStops(geometry, cumDist, cumTime, nil, rules))
	})

	t.Run("markers are rounded to two decimals", func(t *testing.T) {
		cd := []float64{0, 1000}
		ct := []float64{0, 1000}
		g := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}}
		events := SnapStops(g, cd, ct, []domain.StopMarker{{Type: domain.StopFuel, Location: g[1]}}, rules)
		assert.Equal(t, 0.62, events[0].MileMarker)
		assert.Equal(t, 0.28, events[0].TimeMarkerHours)
	})

	t.Run("near ties round on the exact value", func(t *testing.T) {
		g := []domain.Coordinates{{Lon: 0, Lat: 0}, {Lon: 0, Lat: 1}}
		for _, tc := range []struct {
			seconds float64
			want    float64
		}{
			{54, 0.01},
			{162, 0.04},
			{270, 0.07},
			{378, 0.1},
		} {
			ct := []float64{0, tc.seconds}
			events := SnapStops(g, []float64{0, 0}, ct, []domain.StopMarker{{Type: domain.StopFuel, Location: g[1]}}, rules)
			assert.Equal(t, tc.want, events[0].TimeMarkerHours, "%v seconds", tc.seconds)
		}
	})
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 0.01, round2(0.015))
	assert.Equal(t, 0.12, round2(0.125))
	assert.Equal(t, 2.67, round2(2.675))
	assert.Equal(t, -1.5, round2(-1.5))
	assert.Equal(t, 0.0, round2(0))
}
