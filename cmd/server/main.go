package main

import (
	"context"
	"errors"
	"fmt"
	"hos-route-service/internal/adapters/cache"
	"hos-route-service/internal/adapters/repositories"
	"hos-route-service/internal/adapters/routing"
	"hos-route-service/internal/api"
	"hos-route-service/internal/config"
	"hos-route-service/internal/logging"
	"hos-route-service/internal/platform/db"
	"hos-route-service/internal/ports"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// main is the application composition root.
// It wires concrete adapters (OSRM, Postgres, Redis) behind ports and starts the HTTP server.
func main() {
	envErr := godotenv.Load()
	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(config.Get("LOG_LEVEL", "info")))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rules, err := config.LoadRules(config.Get("RULES_PATH", ""))
	if err != nil {
		return err
	}

	profile := config.Get("OSRM_PROFILE", "driving")
	cacheTTL := config.GetDuration("ROUTE_CACHE_TTL", 7*24*time.Hour)

	var (
		repo       ports.ItineraryRepository = repositories.NewMemoryItineraryRepository()
		routeCache ports.RouteCache
	)

	// Postgres is optional; without it itineraries live in memory.
	if databaseURL := config.Get("DATABASE_URL", ""); databaseURL != "" {
		conn, err := db.Open(ctx, databaseURL)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := repositories.InitSchema(ctx, conn); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}

		repo = repositories.NewPostgresItineraryRepository(conn)
		routeCache = cache.NewSQLRouteCache(conn, cacheTTL)
	}

	if redisURL := config.Get("REDIS_URL", ""); redisURL != "" {
		opts, err := redis.ParseURL(redisURL)
		if err != nil {
			return fmt.Errorf("parse REDIS_URL: %w", err)
		}
		client := redis.NewClient(opts)
		defer client.Close()

		redisCache := cache.NewRedisRouteCache(client, cacheTTL)
		if routeCache != nil {
			routeCache = cache.NewTieredRouteCache(redisCache, routeCache)
		} else {
			routeCache = redisCache
		}
	}

	providerOpts := []routing.OSRMOption{
		routing.WithBaseURL(config.Get("OSRM_URL", routing.DefaultBaseURL)),
		routing.WithProfile(profile),
		routing.WithUserAgent(config.Get("OSRM_USER_AGENT", "hos-route-service/1.0")),
		routing.WithHTTPClient(&http.Client{Timeout: config.GetDuration("OSRM_TIMEOUT", 30*time.Second)}),
	}
	if routeCache != nil {
		providerOpts = append(providerOpts, routing.WithRouteCache(routeCache))
	}
	provider, err := routing.NewOSRMProvider(providerOpts...)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Provider:         provider,
		Repo:             repo,
		Rules:            rules,
		Logger:           logger,
		RateLimitPerMin:  config.GetInt("RATE_LIMIT_PER_MIN", 120),
		BatchConcurrency: config.GetInt("BATCH_CONCURRENCY", 5),
	})
	defer router.Close()

	port := config.Get("PORT", "8080")

	// Timeouts are tuned for cold-cache route planning (external API latency).
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.String("addr", srv.Addr), slog.Bool("route_cache", routeCache != nil))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
