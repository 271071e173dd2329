package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"storefront/internal/domain"
)

// ErrMiss is returned by Get when the product is not cached.
var ErrMiss = errors.New("product cache miss")

type ProductCache interface {
	Get(ctx context.Context, slug string) (*domain.Product, error)
	Set(ctx context.Context, p domain.Product) error
	Delete(ctx context.Context, slug string) error
}

type RedisProductCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisProductCache(rdb *redis.Client, ttl time.Duration) *RedisProductCache {
	return &RedisProductCache{rdb: rdb, ttl: ttl}
}

func (c *RedisProductCache) Get(ctx context.Context, slug string) (*domain.Product, error) {
	data, err := c.rdb.Get(ctx, Key(slug)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("reading cached product: %w", err)
	}

	var p domain.Product
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("decoding cached product: %w", err)
	}
	return &p, nil
}

func (c *RedisProductCache) Set(ctx context.Context, p domain.Product) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, Key(p.Slug), data, c.ttl).Err()
}

func (c *RedisProductCache) Delete(ctx context.Context, slug string) error {
	return c.rdb.Del(ctx, Key(slug)).Err()
}

func Key(slug string) string {
	return fmt.Sprintf("product:%s", slug)
}

// NopProductCache is used when no redis address is configured.
type NopProductCache struct{}

func (NopProductCache) Get(context.Context, string) (*domain.Product, error) { return nil, ErrMiss }
func (NopProductCache) Set(context.Context, domain.Product) error            { return nil }
func (NopProductCache) Delete(context.Context, string) error                 { return nil }
