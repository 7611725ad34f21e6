// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package search

import (
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
)

// CacheStats is a snapshot of cache usage.
type CacheStats struct {
	Size      int   `json:"size"`
	MaxSize   int   `json:"maxSize"`
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Evictions int64 `json:"evictions"`
}

// HitRate returns hits as a percentage of lookups.
func (s CacheStats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// Cache is a bounded LRU cache of search results keyed by folded query.
// A nil *Cache is a valid, always-missing cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string][]Result
	order   []string // least recently used first
	maxSize int

	hits      atomic.Int64
	misses    atomic.Int64
	evictions atomic.Int64
}

// NewCache returns a cache holding at most maxSize queries, or nil when
// maxSize is not positive.
func NewCache(maxSize int) *Cache {
	if maxSize <= 0 {
		return nil
	}
	return &Cache{
		entries: make(map[string][]Result, maxSize),
		maxSize: maxSize,
	}
}

// touch moves key to the most recently used position.
func (c *Cache) touch(key string) {
	if i := slices.Index(c.order, key); i >= 0 {
		c.order = slices.Delete(c.order, i, i+1)
	}
	c.order = append(c.order, key)
}

// Get returns a copy of the cached results for key.
func (c *Cache) Get(key string) ([]Result, bool) {
	if c == nil {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	results, ok := c.entries[key]
	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	c.touch(key)
	return slices.Clone(results), true
}

// Set stores results under key, evicting the least recently used entries
// when the cache is full.
func (c *Cache) Set(key string, results []Result) {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.entries[key]; !exists {
		for len(c.entries) >= c.maxSize && len(c.order) > 0 {
			lru := c.order[0]
			delete(c.entries, lru)
			c.order = c.order[1:]
			c.evictions.Add(1)
		}
	}

	c.entries[key] = slices.Clone(results)
	c.touch(key)
}

// Clear drops every entry and resets the counters.
func (c *Cache) Clear() {
	if c == nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string][]Result, c.maxSize)
	c.order = nil
	c.hits.Store(0)
	c.misses.Store(0)
	c.evictions.Store(0)
}

// Stats returns current usage counters.
func (c *Cache) Stats() CacheStats {
	if c == nil {
		return CacheStats{}
	}

	c.mu.Lock()
	size := len(c.entries)
	c.mu.Unlock()

	return CacheStats{
		Size:      size,
		MaxSize:   c.maxSize,
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
	}
}

// String formats the statistics for the CLI and the status tool.
func (c *Cache) String() string {
	s := c.Stats()
	return fmt.Sprintf("Search Cache Statistics:\n"+
		"  Size: %d/%d queries\n"+
		"  Hit Rate: %.1f%% (%d hits, %d misses)\n"+
		"  Evictions: %d",
		s.Size, s.MaxSize,
		s.HitRate(), s.Hits, s.Misses,
		s.Evictions)
}
