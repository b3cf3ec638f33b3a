// Package rediscache provides a read-through Redis cache for the product
// catalog. Cache failures never fail a request: the repository falls back to
// the underlying store and logs the problem.
package rediscache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

const catalogKey = "storefront:catalog"

// NewClient creates a Redis client from a redis:// URL.
func NewClient(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	return redis.NewClient(opts), nil
}

var _ product.Repository = (*CatalogCache)(nil)

// CatalogCache decorates a product.Repository, caching the full catalog list
// under a single key with a TTL. Point lookups pass through to the
// underlying repository.
type CatalogCache struct {
	inner  product.Repository
	client *redis.Client
	ttl    time.Duration
	lg     *zap.Logger
}

// New wraps inner with a Redis-backed catalog cache.
func New(inner product.Repository, client *redis.Client, ttl time.Duration, lg *zap.Logger) *CatalogCache {
	return &CatalogCache{
		inner:  inner,
		client: client,
		ttl:    ttl,
		lg:     lg,
	}
}

// List returns the cached catalog when fresh, falling back to the underlying
// repository and repopulating the cache on a miss.
func (c *CatalogCache) List(ctx context.Context) ([]product.Product, error) {
	raw, err := c.client.Get(ctx, catalogKey).Bytes()
	if err == nil {
		var cached []product.Product
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.lg.Warn("corrupt catalog cache entry, refetching", zap.Error(err))
	} else if !errors.Is(err, redis.Nil) {
		c.lg.Warn("catalog cache read failed", zap.Error(err))
	}

	products, err := c.inner.List(ctx)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(products); err == nil {
		if err := c.client.Set(ctx, catalogKey, raw, c.ttl).Err(); err != nil {
			c.lg.Warn("catalog cache write failed", zap.Error(err))
		}
	}
	return products, nil
}

// GetByID passes through to the underlying repository.
func (c *CatalogCache) GetByID(ctx context.Context, id string) (*product.Product, error) {
	return c.inner.GetByID(ctx, id)
}

// GetByIDs passes through to the underlying repository.
func (c *CatalogCache) GetByIDs(ctx context.Context, ids []string) ([]product.Product, error) {
	return c.inner.GetByIDs(ctx, ids)
}

// Invalidate drops the cached catalog, forcing the next List to refetch.
func (c *CatalogCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		return errors.Wrap(err, "invalidate catalog cache")
	}
	return nil
}
