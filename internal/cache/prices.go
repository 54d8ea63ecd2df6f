// Package cache keeps the latest price per symbol in Redis in front of the
// price store.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/trogers1052/portfolio-tracker/internal/models"
)

const keyPrefix = "price:latest:"

// PriceLoader is the backing source consulted on a cache miss.
type PriceLoader interface {
	LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error)
}

// PriceCache is a read-through cache of latest prices. Redis failures are
// logged and the loader is used directly, so the cache never changes results.
type PriceCache struct {
	client *redis.Client
	loader PriceLoader
	ttl    time.Duration
	log    logrus.FieldLogger
}

// NewPriceCache wraps loader with a Redis cache whose entries expire after ttl.
func NewPriceCache(client *redis.Client, loader PriceLoader, ttl time.Duration, log logrus.FieldLogger) *PriceCache {
	return &PriceCache{
		client: client,
		loader: loader,
		ttl:    ttl,
		log:    log.WithField("component", "price_cache"),
	}
}

func key(symbol string) string {
	return keyPrefix + symbol
}

// LatestPrices returns the newest snapshot per symbol. Lookups for all
// symbols bypass the cache.
func (c *PriceCache) LatestPrices(ctx context.Context, symbols []string) (map[string]models.Price, error) {
	if len(symbols) == 0 {
		return c.loader.LatestPrices(ctx, symbols)
	}

	keys := make([]string, len(symbols))
	for i, s := range symbols {
		keys[i] = key(s)
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		c.log.WithError(err).Warn("price cache read failed, loading from store")
		return c.loader.LatestPrices(ctx, symbols)
	}

	latest := make(map[string]models.Price, len(symbols))
	var misses []string
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			misses = append(misses, symbols[i])
			continue
		}
		var p models.Price
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			c.log.WithError(err).WithField("symbol", symbols[i]).Warn("discarding undecodable cache entry")
			misses = append(misses, symbols[i])
			continue
		}
		latest[symbols[i]] = p
	}

	if len(misses) == 0 {
		return latest, nil
	}

	loaded, err := c.loader.LatestPrices(ctx, misses)
	if err != nil {
		return nil, err
	}
	c.store(ctx, loaded)
	for symbol, p := range loaded {
		latest[symbol] = p
	}
	return latest, nil
}

// Invalidate drops the cached entry for symbol. A fill already in flight may
// still write the previous snapshot back; the TTL bounds that.
func (c *PriceCache) Invalidate(ctx context.Context, symbol string) error {
	if err := c.client.Del(ctx, key(symbol)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached price for %s: %w", symbol, err)
	}
	return nil
}

func (c *PriceCache) store(ctx context.Context, prices map[string]models.Price) {
	pipe := c.client.Pipeline()
	for symbol, p := range prices {
		data, err := json.Marshal(p)
		if err != nil {
			c.log.WithError(err).WithField("symbol", symbol).Warn("failed to encode price for cache")
			continue
		}
		pipe.Set(ctx, key(symbol), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.log.WithError(err).Warn("price cache write failed")
	}
}
