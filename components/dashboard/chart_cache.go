package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// RenderCache memoizes rendered chart HTML so repeated page loads are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// ChartCache is a size-bounded TTL cache for rendered charts.
type ChartCache struct {
	lru *expirable.LRU[string, string]
}

// NewChartCache builds a cache holding up to size entries for ttl. A
// non-positive ttl disables caching.
func NewChartCache(size int, ttl time.Duration) *ChartCache {
	if ttl <= 0 {
		return &ChartCache{}
	}
	if size <= 0 {
		size = 128
	}
	return &ChartCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *ChartCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if c != nil && c.lru != nil {
		if html, ok := c.lru.Get(key); ok {
			return html, nil
		}
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	if c != nil && c.lru != nil {
		c.lru.Add(key, html)
	}
	return html, nil
}

// Len reports the number of live entries.
func (c *ChartCache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// specHash returns a deterministic hash for a chart specification.
func specHash(spec any) string {
	b, err := json.Marshal(spec)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
