package catalog

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matst80/slask-facets/pkg/types"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultSnapshotKey = "_products"

type SnapshotCache interface {
	Get(ctx context.Context, key string, out any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Delete(ctx context.Context, key string) error
}

// CachedProvider serves snapshots from a cache and falls back to Next. Concurrent misses
// share a single upstream fetch. Cache failures are logged and bypassed.
type CachedProvider struct {
	Next   Provider
	Cache  SnapshotCache
	Key    string
	TTL    time.Duration
	Logger *zap.Logger
	group  singleflight.Group
}

func NewCachedProvider(next Provider, cache SnapshotCache, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedProvider{
		Next:   next,
		Cache:  cache,
		Key:    DefaultSnapshotKey,
		TTL:    ttl,
		Logger: logger,
	}
}

func (c *CachedProvider) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

func (c *CachedProvider) FetchAll(ctx context.Context) ([]types.Product, error) {
	const op = "catalog.CachedProvider.FetchAll"
	if c.Cache != nil {
		var products []types.Product
		err := c.Cache.Get(ctx, c.Key, &products)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			c.logger().Warn("product cache read failed", zap.String("key", c.Key), zap.Error(err))
		}
	}

	// the shared fetch must not die with the first caller
	ch := c.group.DoChan(c.Key, func() (any, error) {
		products, err := c.Next.FetchAll(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		if c.Cache != nil {
			if err := c.Cache.Set(context.WithoutCancel(ctx), c.Key, products, c.TTL); err != nil {
				c.logger().Warn("product cache write failed", zap.String("key", c.Key), zap.Error(err))
			}
		}
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("%s: %w", op, res.Err)
		}
		return slices.Clone(res.Val.([]types.Product)), nil
	}
}

// Invalidate drops the cached snapshot so the next fetch goes upstream.
func (c *CachedProvider) Invalidate(ctx context.Context) error {
	c.group.Forget(c.Key)
	if c.Cache == nil {
		return nil
	}
	if err := c.Cache.Delete(ctx, c.Key); err != nil {
		return fmt.Errorf("catalog.CachedProvider.Invalidate: %w", err)
	}
	return nil
}
