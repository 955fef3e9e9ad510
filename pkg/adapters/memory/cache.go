package memory

import (
	"context"
	"sync"

	"github.com/aretw0/keepaway/pkg/domain"
)

// Cache implements ports.AnswerCache in memory.
// Safe for concurrent use.
type Cache struct {
	data map[string]domain.Result
	mu   sync.RWMutex
}

// NewCache creates a new in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data: make(map[string]domain.Result),
	}
}

// Get retrieves a copy of the cached result.
func (c *Cache) Get(ctx context.Context, key string) (*domain.Result, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	res, ok := c.data[key]
	if !ok {
		return nil, domain.ErrCacheMiss
	}
	// Copy on read so callers can't mutate cached counters by pointer
	res.Inspections = append([]int64(nil), res.Inspections...)
	return &res, nil
}

// Put stores a copy of the result.
func (c *Cache) Put(ctx context.Context, key string, result *domain.Result) error {
	res := *result
	res.Inspections = append([]int64(nil), result.Inspections...)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = res
	return nil
}

// Delete removes the entry.
func (c *Cache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// Len returns the number of cached answers.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
