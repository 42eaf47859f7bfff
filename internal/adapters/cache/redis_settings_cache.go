package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"basket-shipping-service/internal/domain"
	"basket-shipping-service/internal/ports"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

const (
	activeRatesKey = "shipping:rates:active"
	configKey      = "shipping:config"

	// Bound on a shared repository load, which outlives the caller that started it.
	loadTimeout = 5 * time.Second
)

// RedisSettingsCache decorates the rate and settings repositories with a
// short-lived Redis copy of the data read on every quote.
//
// Only reference data is cached; geocoded coordinates never are. Every
// admin write goes through to Postgres first and then drops the cached keys.
// Redis failures degrade to direct repository reads.
type RedisSettingsCache struct {
	rates  ports.RateRepository
	config ports.ConfigRepository
	rdb    redis.UniversalClient
	ttl    time.Duration
	group  singleflight.Group
}

var (
	_ ports.RateRepository   = (*RedisSettingsCache)(nil)
	_ ports.ConfigRepository = (*RedisSettingsCache)(nil)
)

func NewRedisSettingsCache(
	rdb redis.UniversalClient,
	ttl time.Duration,
	rates ports.RateRepository,
	config ports.ConfigRepository,
) *RedisSettingsCache {
	return &RedisSettingsCache{rates: rates, config: config, rdb: rdb, ttl: ttl}
}

func (c *RedisSettingsCache) ListActiveRates(ctx context.Context) ([]domain.ShippingRate, error) {
	var cached []domain.ShippingRate
	if c.get(ctx, activeRatesKey, &cached) {
		return cached, nil
	}

	v, err := c.load(ctx, activeRatesKey, func(ctx context.Context) (any, error) {
		rates, err := c.rates.ListActiveRates(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, activeRatesKey, rates)
		return rates, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache.RedisSettingsCache.ListActiveRates: %w", err)
	}
	return v.([]domain.ShippingRate), nil
}

func (c *RedisSettingsCache) GetConfig(ctx context.Context) (domain.ShippingConfig, error) {
	var cached domain.ShippingConfig
	if c.get(ctx, configKey, &cached) {
		return cached, nil
	}

	v, err := c.load(ctx, configKey, func(ctx context.Context) (any, error) {
		cfg, err := c.config.GetConfig(ctx)
		if err != nil {
			return nil, err
		}
		c.set(ctx, configKey, cfg)
		return cfg, nil
	})
	if err != nil {
		return domain.ShippingConfig{}, fmt.Errorf("cache.RedisSettingsCache.GetConfig: %w", err)
	}
	return v.(domain.ShippingConfig), nil
}

// Admin listings always read through; they are rare and must be exact.
func (c *RedisSettingsCache) ListRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return c.rates.ListRates(ctx)
}

func (c *RedisSettingsCache) CreateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error) {
	created, err := c.rates.CreateRate(ctx, rate)
	if err != nil {
		return domain.ShippingRate{}, err
	}
	c.invalidate(ctx, activeRatesKey)
	return created, nil
}

func (c *RedisSettingsCache) UpdateRate(ctx context.Context, rate domain.ShippingRate) (domain.ShippingRate, error) {
	updated, err := c.rates.UpdateRate(ctx, rate)
	if err != nil {
		return domain.ShippingRate{}, err
	}
	c.invalidate(ctx, activeRatesKey)
	return updated, nil
}

func (c *RedisSettingsCache) DeleteRate(ctx context.Context, id uuid.UUID) error {
	if err := c.rates.DeleteRate(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, activeRatesKey)
	return nil
}

func (c *RedisSettingsCache) UpdateConfig(ctx context.Context, cfg domain.ShippingConfig) (domain.ShippingConfig, error) {
	updated, err := c.config.UpdateConfig(ctx, cfg)
	if err != nil {
		return domain.ShippingConfig{}, err
	}
	c.invalidate(ctx, configKey)
	return updated, nil
}

// get reports whether key was found and decoded into dst.
// load runs fn once per key across concurrent callers. The shared load is
// detached from any single caller's cancellation; a caller that gives up
// returns its own ctx error and leaves the load running for the others.
func (c *RedisSettingsCache) load(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := c.group.DoChan(key, func() (any, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return fn(loadCtx)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		return res.Val, res.Err
	}
}

func (c *RedisSettingsCache) get(ctx context.Context, key string, dst any) bool {
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.WarnContext(ctx, "settings cache read failed", "key", key, "error", err)
		return false
	}

	if err := json.Unmarshal(b, dst); err != nil {
		slog.WarnContext(ctx, "settings cache entry unreadable", "key", key, "error", err)
		c.invalidate(ctx, key)
		return false
	}
	return true
}

func (c *RedisSettingsCache) set(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		slog.WarnContext(ctx, "settings cache encode failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, b, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "settings cache write failed", "key", key, "error", err)
	}
}

func (c *RedisSettingsCache) invalidate(ctx context.Context, keys ...string) {
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		slog.WarnContext(ctx, "settings cache invalidation failed", "keys", keys, "error", err)
	}
}
