package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/platform/obs"
	"strings"
	"time"
)

// SQLRouteCache is a SQL-backed cache for provider routes.
// Entries older than TTL are treated as misses; a zero TTL never expires.
type SQLRouteCache struct {
	DB  *sql.DB
	TTL time.Duration
}

func NewSQLRouteCache(db *sql.DB, ttl time.Duration) *SQLRouteCache {
	return &SQLRouteCache{DB: db, TTL: ttl}
}

// Fetch a cached route by key.
func (s *SQLRouteCache) Get(ctx context.Context, key string) (_ domain.DrivenRoute, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.sql.Get")(&err)

	if s.DB == nil {
		return domain.DrivenRoute{}, false, errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return domain.DrivenRoute{}, false, errors.New("get route cache: key must not be empty")
	}

	q := `
	SELECT payload, fetched_at
	FROM route_cache
	WHERE cache_key = $1;
	`

	var payload []byte
	var fetchedAt time.Time
	err = s.DB.QueryRowContext(ctx, q, key).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DrivenRoute{}, false, nil
	}
	if err != nil {
		return domain.DrivenRoute{}, false, fmt.Errorf("get route cache: query route_cache table: %w", err)
	}

	if s.TTL > 0 && time.Since(fetchedAt) > s.TTL {
		return domain.DrivenRoute{}, false, nil
	}

	route, err := decodeRoute(payload)
	if err != nil {
		return domain.DrivenRoute{}, false, fmt.Errorf("get route cache: %w", err)
	}
	return route, true, nil
}

// Store a route under key, replacing any previous entry.
func (s *SQLRouteCache) Put(ctx context.Context, key string, route domain.DrivenRoute) error {
	if s.DB == nil {
		return errors.New("route cache: db is nil")
	}

	if strings.TrimSpace(key) == "" {
		return errors.New("insert route cache: key must not be empty")
	}

	payload, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("insert route cache: %w", err)
	}

	q := `
	INSERT INTO route_cache (cache_key, payload, fetched_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (cache_key) DO UPDATE
	SET payload = EXCLUDED.payload,
		fetched_at = EXCLUDED.fetched_at;
	`
	if _, err := s.DB.ExecContext(ctx, q, key, payload, time.Now().UTC()); err != nil {
		return fmt.Errorf("insert route cache key=%q: %w", key, err)
	}

	return nil
}
