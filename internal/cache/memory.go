package cache

import (
	"context"
	"slices"
	"sync"

	"github.com/matthewbaird/admingen/internal/artifact"
)

// MemoryCache holds up to Size entries and evicts the oldest insert first.
type MemoryCache struct {
	mu      sync.Mutex
	size    int
	entries map[string][]artifact.File
	order   []string
}

// NewMemoryCache creates a cache of at most size entries; size < 1 means 1.
func NewMemoryCache(size int) *MemoryCache {
	if size < 1 {
		size = 1
	}
	return &MemoryCache{size: size, entries: make(map[string][]artifact.File, size)}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]artifact.File, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	files, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(files), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, files []artifact.File) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		if len(c.order) >= c.size {
			oldest := c.order[0]
			c.order = c.order[1:]
			delete(c.entries, oldest)
		}
		c.order = append(c.order, key)
	}
	c.entries[key] = slices.Clone(files)
	return nil
}

// Len reports the number of cached entries.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
