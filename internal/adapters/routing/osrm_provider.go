package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hos-route-service/internal/adapters/cache"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/logging"
	"hos-route-service/internal/platform/obs"
	"hos-route-service/internal/platform/polyline"
	"hos-route-service/internal/ports"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const DefaultBaseURL = "http://router.project-osrm.org"

// OSRMProvider implements RouteProvider using an OSRM /route/v1 endpoint.
//
// It coordinates:
//   - Route caching behind the RouteCache port
//   - Collapsing identical in-flight lookups
//   - External API calls with retry/backoff
//
// The provider is safe for concurrent use.
type OSRMProvider struct {
	session     *http.Client
	baseURL     string
	profile     string
	userAgent   string
	maxAttempts int
	backoff     time.Duration
	cache       ports.RouteCache
	inflight    singleflight.Group

	// Upper bound for one shared lookup, retries included.
	fetchTimeout time.Duration
}

type OSRMOption func(*OSRMProvider)

func WithBaseURL(u string) OSRMOption {
	return func(o *OSRMProvider) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithProfile(p string) OSRMOption {
	return func(o *OSRMProvider) { o.profile = p }
}

func WithHTTPClient(c *http.Client) OSRMOption {
	return func(o *OSRMProvider) { o.session = c }
}

func WithRouteCache(c ports.RouteCache) OSRMOption {
	return func(o *OSRMProvider) { o.cache = c }
}

func WithRetry(maxAttempts int, backoff time.Duration) OSRMOption {
	return func(o *OSRMProvider) {
		o.maxAttempts = maxAttempts
		o.backoff = backoff
	}
}

func WithFetchTimeout(d time.Duration) OSRMOption {
	return func(o *OSRMProvider) { o.fetchTimeout = d }
}

func WithUserAgent(ua string) OSRMOption {
	return func(o *OSRMProvider) { o.userAgent = ua }
}

func NewOSRMProvider(opts ...OSRMOption) (*OSRMProvider, error) {
	provider := &OSRMProvider{
		session:     &http.Client{Timeout: 10 * time.Second},
		baseURL:     DefaultBaseURL,
		profile:     "driving",
		userAgent:   "hos-route-service",
		maxAttempts:  4,
		backoff:      200 * time.Millisecond,
		fetchTimeout: time.Minute,
	}
	for _, opt := range opts {
		opt(provider)
	}

	if provider.baseURL == "" {
		return nil, errors.New("OSRM base url is empty")
	}
	if provider.fetchTimeout <= 0 {
		return nil, errors.New("OSRM fetch timeout must be positive")
	}
	if provider.maxAttempts < 1 {
		return nil, errors.New("OSRM retry attempts must be at least 1")
	}

	return provider, nil
}

type routeResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Routes  []struct {
		Distance float64 `json:"distance"`
		Duration float64 `json:"duration"`
		Geometry string  `json:"geometry"`
		Legs     []struct {
			Annotation struct {
				Distance []float64 `json:"distance"`
				Duration []float64 `json:"duration"`
			} `json:"annotation"`
		} `json:"legs"`
	} `json:"routes"`
}

// GetRoute returns the driven route through waypoints, consulting the cache first.
func (o *OSRMProvider) GetRoute(
	ctx context.Context,
	waypoints []domain.Coordinates,
) (_ domain.DrivenRoute, err error) {
	defer obs.Time(ctx, "osrm.GetRoute")(&err)

	if len(waypoints) < 2 {
		return domain.DrivenRoute{}, errors.New("get OSRM route: at least two waypoints are required")
	}

	key := cache.RouteKey(o.profile, waypoints)
	logger := logging.FromContext(ctx)

	if o.cache != nil {
		route, ok, err := o.cache.Get(ctx, key)
		if err != nil {
			logging.LogError(logger, "route cache read failed", err, slog.String("key", key))
		} else if ok {
			return route, nil
		}
	}

	// The shared fetch outlives any single caller; each caller still stops
	// waiting when its own ctx ends.
	ch := o.inflight.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.fetchTimeout)
		defer cancel()

		route, err := o.fetchRoute(fetchCtx, waypoints)
		if err != nil {
			return nil, err
		}
		if o.cache != nil {
			if err := o.cache.Put(fetchCtx, key, route); err != nil {
				logging.LogError(logger, "route cache write failed", err, slog.String("key", key))
			}
		}
		return route, nil
	})

	select {
	case <-ctx.Done():
		return domain.DrivenRoute{}, fmt.Errorf("get OSRM route: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.DrivenRoute{}, fmt.Errorf("get OSRM route: %w", res.Err)
		}
		return res.Val.(domain.DrivenRoute), nil
	}
}

func (o *OSRMProvider) routeURL(waypoints []domain.Coordinates) string {
	parts := make([]string, 0, len(waypoints))
	for _, w := range waypoints {
		parts = append(parts,
			strconv.FormatFloat(w.Lon, 'f', -1, 64)+","+strconv.FormatFloat(w.Lat, 'f', -1, 64))
	}
	return fmt.Sprintf("%s/route/v1/%s/%s", o.baseURL, o.profile, strings.Join(parts, ";"))
}

func (o *OSRMProvider) fetchRoute(ctx context.Context, waypoints []domain.Coordinates) (domain.DrivenRoute, error) {
	endpoint := o.routeURL(waypoints)

	resp, err := o.doWithRetry(ctx, func() (*http.Request, error) {
		req, err := o.newRequest(ctx, http.MethodGet, endpoint)
		if err != nil {
			return nil, err
		}
		q := req.URL.Query()
		q.Set("overview", "full")
		q.Set("geometries", "polyline6")
		q.Set("annotations", "distance,duration")
		req.URL.RawQuery = q.Encode()
		return req, nil
	})
	if err != nil {
		return domain.DrivenRoute{}, fmt.Errorf("route request: %w", err)
	}
	defer resp.Body.Close()

	var decoded routeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.DrivenRoute{}, fmt.Errorf("decode route response: %w", err)
	}

	if decoded.Code != "Ok" || len(decoded.Routes) == 0 {
		return domain.DrivenRoute{}, fmt.Errorf(
			"%w: OSRM code=%q message=%q",
			domain.ErrRouteLookupFailed, decoded.Code, decoded.Message,
		)
	}

	r := decoded.Routes[0]

	geometry, err := polyline.Decode(r.Geometry)
	if err != nil {
		return domain.DrivenRoute{}, fmt.Errorf("decode route geometry: %w", err)
	}

	legs := make([]domain.RouteLeg, 0, len(r.Legs))
	for _, l := range r.Legs {
		legs = append(legs, domain.RouteLeg{
			Distances: l.Annotation.Distance,
			Durations: l.Annotation.Duration,
		})
	}

	return domain.DrivenRoute{
		Geometry:        geometry,
		Legs:            legs,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
	}, nil
}
