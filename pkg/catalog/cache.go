package catalog

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

type localEntry struct {
	expires time.Time
	data    []byte
}

// Cache stores JSON values in redis with a short lived in-process copy in front.
type Cache struct {
	client   *redis.Client
	mu       sync.RWMutex
	local    map[string]localEntry
	localTTL time.Duration
}

func NewCache(addr, password string, db int) *Cache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &Cache{client: rdb, local: make(map[string]localEntry), localTTL: time.Minute}
}

func (c *Cache) getLocal(key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.local[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expires) {
		c.mu.Lock()
		delete(c.local, key)
		c.mu.Unlock()
		return nil, false
	}
	return entry.data, true
}

func (c *Cache) setLocal(key string, data []byte, expiration time.Duration) {
	ttl := c.localTTL
	if expiration > 0 && expiration < ttl {
		ttl = expiration
	}
	c.mu.Lock()
	c.local[key] = localEntry{expires: time.Now().Add(ttl), data: data}
	c.mu.Unlock()
}

func (c *Cache) Get(ctx context.Context, key string, out any) error {
	if data, ok := c.getLocal(key); ok {
		return jsoncompat.Unmarshal(data, out)
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return ErrCacheMiss
	}
	if err != nil {
		return err
	}
	if err = jsoncompat.Unmarshal(data, out); err != nil {
		return err
	}
	c.setLocal(key, data, c.localTTL)
	return nil
}

func (c *Cache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	data, err := jsoncompat.Marshal(value)
	if err != nil {
		return err
	}
	c.setLocal(key, data, expiration)
	return c.client.Set(ctx, key, data, expiration).Err()
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	delete(c.local, key)
	c.mu.Unlock()
	return c.client.Del(ctx, key).Err()
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.client.Close()
}
