package shell

import (
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Cache holds fetched data for the admin pages. Entries expire after the
// configured TTL and mutations invalidate them explicitly.
type Cache struct {
	lru *expirable.LRU[string, any]
}

func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[string, any](size, nil, ttl)}
}

func (c *Cache) Get(key string) (any, bool) { return c.lru.Get(key) }

func (c *Cache) Set(key string, value any) { c.lru.Add(key, value) }

func (c *Cache) Invalidate(key string) { c.lru.Remove(key) }

// InvalidatePrefix removes every key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	for _, key := range c.lru.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.lru.Remove(key)
		}
	}
}

func (c *Cache) Len() int { return c.lru.Len() }

// Fetch returns the cached value for key or loads and caches it.
func Fetch[T any](c *Cache, key string, load func() (T, error)) (T, error) {
	if v, ok := c.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}
