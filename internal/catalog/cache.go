package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores search results as JSON in Redis so repeated cashier lookups
// do not hit Postgres on every keystroke.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a cache helper. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

// SearchKey derives the cache key for a normalised search query.
func SearchKey(query string, limit int) string {
	return fmt.Sprintf("kasir:catalog:search:%s:%d", strings.ToLower(strings.TrimSpace(query)), limit)
}

// GetProducts loads a cached product list. It reports whether the key existed.
func (c *Cache) GetProducts(ctx context.Context, key string) ([]Product, bool, error) {
	if c == nil || c.client == nil || key == "" {
		return nil, false, nil
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, false, nil
		}
		return nil, false, err
	}
	var products []Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, false, err
	}
	return products, true, nil
}

// SetProducts stores a product list under the key with the configured TTL.
func (c *Cache) SetProducts(ctx context.Context, key string, products []Product) error {
	if c == nil || c.client == nil || key == "" || c.ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(products)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
