package api

import (
	"hos-route-service/internal/api/handlers"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/ports"
	"log/slog"
	"net/http"
)

type RouterConfig struct {
	Provider         ports.RouteProvider
	Repo             ports.ItineraryRepository
	Rules            domain.Rules
	Logger           *slog.Logger
	RateLimitPerMin  int
	BatchConcurrency int
}

// Router is the API's http.Handler. Close releases background resources.
type Router struct {
	handler http.Handler
	limiter *rateLimiter
}

func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

// Close stops the rate limiter's eviction loop. It is safe to call more than once.
func (rt *Router) Close() {
	if rt.limiter != nil {
		rt.limiter.stop()
	}
}

// NewRouter wires HTTP handlers with their dependencies.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(cfg RouterConfig) *Router {
	mux := http.NewServeMux()

	routeHandler := handlers.NewRouteHandler(cfg.Provider, cfg.Repo, cfg.Rules)
	routeHandler.BatchConcurrency = cfg.BatchConcurrency

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/route", routeHandler.Plan)
	mux.HandleFunc("/route/{$}", routeHandler.Plan)
	mux.HandleFunc("/routes/batch", routeHandler.PlanBatch)
	mux.HandleFunc("/itineraries/{id}", routeHandler.Get)

	rt := &Router{}

	var h http.Handler = mux
	if cfg.RateLimitPerMin > 0 {
		rt.limiter = newRateLimiter(cfg.RateLimitPerMin)
		h = rt.limiter.middleware(h)
	}
	h = gzipMiddleware(h)

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rt.handler = loggingMiddleware(logger, h)
	return rt
}
