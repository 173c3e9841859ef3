package cache

import (
	"context"
	"errors"
	"fmt"
	"hos-route-service/internal/domain"
	"hos-route-service/internal/platform/obs"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRouteCache stores provider routes in Redis with a fixed TTL.
type RedisRouteCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisRouteCache(client *redis.Client, ttl time.Duration) *RedisRouteCache {
	return &RedisRouteCache{Client: client, TTL: ttl}
}

func (c *RedisRouteCache) Get(ctx context.Context, key string) (_ domain.DrivenRoute, _ bool, err error) {
	defer obs.Time(ctx, "route.cache.redis.Get")(&err)

	if c.Client == nil {
		return domain.DrivenRoute{}, false, errors.New("route cache: redis client is nil")
	}

	b, err := c.Client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.DrivenRoute{}, false, nil
	}
	if err != nil {
		return domain.DrivenRoute{}, false, fmt.Errorf("get route cache %q: %w", key, err)
	}

	route, err := decodeRoute(b)
	if err != nil {
		return domain.DrivenRoute{}, false, fmt.Errorf("get route cache %q: %w", key, err)
	}
	return route, true, nil
}

func (c *RedisRouteCache) Put(ctx context.Context, key string, route domain.DrivenRoute) error {
	if c.Client == nil {
		return errors.New("route cache: redis client is nil")
	}

	b, err := encodeRoute(route)
	if err != nil {
		return fmt.Errorf("put route cache %q: %w", key, err)
	}

	if err := c.Client.Set(ctx, key, b, c.TTL).Err(); err != nil {
		return fmt.Errorf("put route cache %q: %w", key, err)
	}
	return nil
}
