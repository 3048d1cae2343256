package storage

import (
	"context"

	"runclub/internal/cache"
)

// Cached is a read-through, write-through Store decorator. Absent keys are
// not cached. Writes made by other processes to the backing store are only
// seen once the cached copy expires, or through GetFresh.
type Cached struct {
	next  Store
	cache cache.Cache[string]
}

func NewCached(next Store, c cache.Cache[string]) *Cached {
	return &Cached{next: next, cache: c}
}

func (c *Cached) Get(ctx context.Context, key string) (string, bool, error) {
	if v, ok := c.cache.Get(key); ok {
		return v, true, nil
	}
	return c.GetFresh(ctx, key)
}

// GetFresh reads key from the backing store and replaces the cached copy.
func (c *Cached) GetFresh(ctx context.Context, key string) (string, bool, error) {
	v, ok, err := c.next.Get(ctx, key)
	switch {
	case err != nil:
		return v, ok, err
	case !ok:
		c.cache.Delete(key)
	default:
		c.cache.Set(key, v)
	}
	return v, ok, nil
}

func (c *Cached) Set(ctx context.Context, key, value string) error {
	if err := c.next.Set(ctx, key, value); err != nil {
		c.cache.Delete(key)
		return err
	}
	c.cache.Set(key, value)
	return nil
}

func (c *Cached) Remove(ctx context.Context, key string) error {
	c.cache.Delete(key)
	return c.next.Remove(ctx, key)
}
