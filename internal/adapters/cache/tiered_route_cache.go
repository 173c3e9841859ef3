package cache

import (
	"context"
	"errors"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/logging"
	"hos-route-service/internal/ports"
	"log/slog"
)

// TieredRouteCache checks a fast cache before a durable one and backfills the
// fast tier on a durable hit.
type TieredRouteCache struct {
	Fast    ports.RouteCache
	Durable ports.RouteCache
}

func NewTieredRouteCache(fast, durable ports.RouteCache) *TieredRouteCache {
	return &TieredRouteCache{Fast: fast, Durable: durable}
}

func (t *TieredRouteCache) Get(ctx context.Context, key string) (domain.DrivenRoute, bool, error) {
	if t.Fast == nil || t.Durable == nil {
		return domain.DrivenRoute{}, false, errors.New("tiered route cache: both tiers are required")
	}

	route, ok, err := t.Fast.Get(ctx, key)
	if err != nil {
		// A broken fast tier degrades to the durable one.
		logging.LogError(logging.FromContext(ctx), "fast route cache get failed", err, slog.String("key", key))
	}
	if ok {
		return route, true, nil
	}

	route, ok, err = t.Durable.Get(ctx, key)
	if err != nil {
		return domain.DrivenRoute{}, false, fmt.Errorf("tiered route cache: %w", err)
	}
	if !ok {
		return domain.DrivenRoute{}, false, nil
	}

	if err := t.Fast.Put(ctx, key, route); err != nil {
		logging.LogError(logging.FromContext(ctx), "fast route cache backfill failed", err, slog.String("key", key))
	}
	return route, true, nil
}

func (t *TieredRouteCache) Put(ctx context.Context, key string, route domain.DrivenRoute) error {
	if t.Fast == nil || t.Durable == nil {
		return errors.New("tiered route cache: both tiers are required")
	}

	if err := t.Durable.Put(ctx, key, route); err != nil {
		return fmt.Errorf("tiered route cache: %w", err)
	}
	if err := t.Fast.Put(ctx, key, route); err != nil {
		logging.LogError(logging.FromContext(ctx), "fast route cache put failed", err, slog.String("key", key))
	}
	return nil
}
