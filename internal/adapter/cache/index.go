// Package cache holds in-process and Redis-backed caches for the remap
// service.
package cache

import (
	"fmt"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"go.ngs.io/regrid/internal/adapter/spatial"
)

// IndexCache keeps recently used spatial indexes in memory.
// A nil *IndexCache, or one built with size 0, caches nothing.
type IndexCache struct {
	lru *lru.Cache[string, *spatial.Index]
}

// NewIndexCache creates a cache holding at most size indexes.
// size 0 disables caching; a negative size selects 32.
func NewIndexCache(size int) (*IndexCache, error) {
	if size < 0 {
		size = 32
	}
	if size == 0 {
		return &IndexCache{}, nil
	}
	c, err := lru.New[string, *spatial.Index](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create LRU cache: %w", err)
	}
	return &IndexCache{lru: c}, nil
}

// Get returns the index stored under key.
func (c *IndexCache) Get(key string) (*spatial.Index, bool) {
	if c == nil || c.lru == nil {
		return nil, false
	}
	return c.lru.Get(key)
}

// Add stores ix under key, evicting the least recently used entry if full.
func (c *IndexCache) Add(key string, ix *spatial.Index) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(key, ix)
}

// Len returns the number of cached indexes.
func (c *IndexCache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}

// IndexKey identifies the index of one source grid. version must change
// whenever the underlying file does.
func IndexKey(path, variable, x, y string, radius float64, version string) string {
	return strings.Join([]string{
		path, variable, x, y,
		strconv.FormatFloat(radius, 'g', -1, 64),
		version,
	}, "|")
}
