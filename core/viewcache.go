package core

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/huangsam/weighttrend/schema"
)

// ViewCache memoizes derived views by ViewKey with LRU eviction.
// It is safe for concurrent use.
type ViewCache struct {
	views *lru.Cache[schema.ViewKey, *schema.View]
}

// NewViewCache creates a cache holding at most maxEntries views.
// A non-positive maxEntries means a single entry.
func NewViewCache(maxEntries int) *ViewCache {
	views, err := lru.New[schema.ViewKey, *schema.View](max(maxEntries, 1))
	if err != nil {
		// lru.New only fails on a non-positive size
		panic(err)
	}
	return &ViewCache{views: views}
}

// Get returns the view stored for key and marks it most recently used.
func (c *ViewCache) Get(key schema.ViewKey) (*schema.View, bool) {
	return c.views.Get(key)
}

// Put stores view under key, evicting the least recently used entry
// when the cache is full.
func (c *ViewCache) Put(key schema.ViewKey, view *schema.View) {
	c.views.Add(key, view)
}

// Invalidate removes every entry whose key matches pred and returns
// how many were removed.
func (c *ViewCache) Invalidate(pred func(schema.ViewKey) bool) int {
	removed := 0
	for _, key := range c.views.Keys() {
		if pred(key) && c.views.Remove(key) {
			removed++
		}
	}
	return removed
}

// Reset removes every entry.
func (c *ViewCache) Reset() {
	c.views.Purge()
}

// Len returns the number of cached views.
func (c *ViewCache) Len() int {
	return c.views.Len()
}

// Bucket discretizes anchor to the nearest multiple of size and returns
// it in unix seconds, so small scroll jitter maps to the same cache key.
func Bucket(anchor time.Time, size time.Duration) int64 {
	if size <= 0 {
		return anchor.Unix()
	}
	return anchor.Round(size).Unix()
}

// BucketTime returns the instant a bucket stands for.
func BucketTime(bucket int64) time.Time {
	return time.Unix(bucket, 0).UTC()
}
