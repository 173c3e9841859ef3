package routing

import (
	"context"
	"encoding/json"
	"errors"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/platform/polyline"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu sync.Mutex
	m  map[string]domain.DrivenRoute
}

func (c *memoryCache) Get(ctx context.Context, key string) (domain.DrivenRoute, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[key]
	return r, ok, nil
}

func (c *memoryCache) Put(ctx context.Context, key string, route domain.DrivenRoute) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = route
	return nil
}

var testGeometry = []domain.Coordinates{
	{Lon: -112.074036, Lat: 33.448376},
	{Lon: -112.0, Lat: 33.5},
	{Lon: -111.926052, Lat: 33.494170},
}

func osrmBody(t *testing.T) []byte {
	t.Helper()
	body := map[string]any{
		"code": "Ok",
		"routes": []map[string]any{{
			"distance": 2500.0,
			"duration": 300.0,
			"geometry": polyline.Encode(testGeometry),
			"legs": []map[string]any{
				{"annotation": map[string]any{"distance": []float64{1000}, "duration": []float64{120}}},
				{"annotation": map[string]any{"distance": []float64{1500}, "duration": []float64{180}}},
			},
		}},
	}
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return b
}

func waypoints() []domain.Coordinates {
	return []domain.Coordinates{testGeometry[0], testGeometry[1], testGeometry[2]}
}

func TestOSRMProviderGetRoute(t *testing.T) {
	var hits atomic.Int32
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(osrmBody(t))
	}))
	defer srv.Close()

	cache := &memoryCache{m: map[string]domain.DrivenRoute{}}
	p, err := NewOSRMProvider(WithBaseURL(srv.URL), WithRouteCache(cache))
	require.NoError(t, err)

	route, err := p.GetRoute(context.Background(), waypoints())
	require.NoError(t, err)

	assert.Equal(t, "/route/v1/driving/-112.074036,33.448376;-112,33.5;-111.926052,33.49417", gotPath)
	assert.Contains(t, gotQuery, "geometries=polyline6")
	assert.Contains(t, gotQuery, "overview=full")

	require.Len(t, route.Geometry, 3)
	for i, c := range route.Geometry {
		assert.InDelta(t, testGeometry[i].Lon, c.Lon, 1e-6)
		assert.InDelta(t, testGeometry[i].Lat, c.Lat, 1e-6)
	}
	d, s := route.SegmentMetrics()
	assert.Equal(t, []float64{1000, 1500}, d)
	assert.Equal(t, []float64{120, 180}, s)
	assert.Equal(t, 2500.0, route.DistanceMeters)
	assert.Equal(t, 300.0, route.DurationSeconds)

	// Second lookup is served from the cache.
	_, err = p.GetRoute(context.Background(), waypoints())
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestOSRMProviderRetriesTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) < 3 {
			http.Error(w, "busy", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write(osrmBody(t))
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(WithBaseURL(srv.URL), WithRetry(4, time.Millisecond))
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), waypoints())
	require.NoError(t, err)
	assert.Equal(t, int32(3), hits.Load())
}

func TestOSRMProviderSurfacesUpstreamStatus(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, `{"code":"InvalidQuery"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(WithBaseURL(srv.URL), WithRetry(4, time.Millisecond))
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), waypoints())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRouteLookupFailed)

	var le *domain.RouteLookupError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, http.StatusBadRequest, le.Status)
	assert.Equal(t, int32(1), hits.Load(), "client errors are not retried")
}

func TestOSRMProviderNoRoute(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":"NoRoute","message":"Impossible route between points","routes":[]}`))
	}))
	defer srv.Close()

	p, err := NewOSRMProvider(WithBaseURL(srv.URL))
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), waypoints())
	assert.ErrorIs(t, err, domain.ErrRouteLookupFailed)
}

func TestOSRMProviderRejectsSingleWaypoint(t *testing.T) {
	p, err := NewOSRMProvider()
	require.NoError(t, err)

	_, err = p.GetRoute(context.Background(), waypoints()[:1])
	assert.Error(t, err)
}

func TestNewOSRMProviderValidatesOptions(t *testing.T) {
	_, err := NewOSRMProvider(WithRetry(0, time.Millisecond))
	assert.Error(t, err)

	_, err = NewOSRMProvider(WithBaseURL(""))
	assert.Error(t, err)

	_, err = NewOSRMProvider(WithFetchTimeout(0))
	assert.Error(t, err)
}

func TestOSRMProviderSharedLookupSurvivesCallerCancellation(t *testing.T) {
	var hits atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) == 1 {
			close(started)
		}
		<-release
		_, _ = w.Write(osrmBody(t))
	}))
	defer srv.Close()

	cache := &memoryCache{m: map[string]domain.DrivenRoute{}}
	p, err := NewOSRMProvider(WithBaseURL(srv.URL), WithRouteCache(cache))
	require.NoError(t, err)

	leaderCtx, cancelLeader := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := p.GetRoute(leaderCtx, waypoints())
		leaderErr <- err
	}()
	<-started

	type result struct {
		route domain.DrivenRoute
		err   error
	}
	follower := make(chan result, 1)
	go func() {
		route, err := p.GetRoute(context.Background(), waypoints())
		follower <- result{route, err}
	}()

	// Let the follower join the in-flight lookup before the leader goes away.
	time.Sleep(50 * time.Millisecond)
	cancelLeader()
	assert.ErrorIs(t, <-leaderErr, context.Canceled)

	close(release)
	res := <-follower
	require.NoError(t, res.err)
	assert.Len(t, res.route.Geometry, 3)
	assert.Equal(t, int32(1), hits.Load())

	cache.mu.Lock()
	assert.Len(t, cache.m, 1, "shared result is cached once")
	cache.mu.Unlock()
}
