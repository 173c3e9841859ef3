package main

import (
	"context"
	"errors"
	"fmt"
	"hos-route-service/internal/adapters/cache"
	"hos-route-service/internal/adapters/repositories"
	"hos-route-service/internal/config"
	"hos-route-service/internal/logging"
	"hos-route-service/internal/platform/db"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres schema and optionally preloads recorded routes
// into the route cache.
func main() {
	envErr := godotenv.Load()
	logger := logging.NewStructuredLogger(os.Stdout, logging.ParseLevel(config.Get("LOG_LEVEL", "info")))
	if envErr != nil {
		logger.Info("no .env file found, using environment variables")
	}

	if err := run(logger); err != nil {
		logging.LogError(logger, "dbtool failed", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger) error {
	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	conn, err := db.Open(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info("schema ready")

	seedPath := config.Get("ROUTE_SEED_PATH", "")
	if seedPath == "" {
		return nil
	}

	routeCache := cache.NewSQLRouteCache(conn, config.GetDuration("ROUTE_CACHE_TTL", 7*24*time.Hour))
	n, err := cache.SeedFromJSON(ctx, routeCache, config.Get("OSRM_PROFILE", "driving"), seedPath)
	if err != nil {
		return fmt.Errorf("route seeding failed after %d routes: %w", n, err)
	}
	logger.Info("route seeding complete", slog.String("path", seedPath), slog.Int("seeded", n))
	return nil
}
