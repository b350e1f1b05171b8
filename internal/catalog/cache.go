package catalog

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader fetches the full movie list.
type Loader func(ctx context.Context) ([]Movie, error)

// Cache holds the full movie list for the lifetime of the process (or
// until ttl expires). The list is only ever replaced wholesale by a fresh
// load. A failed load is not remembered, so the next caller retries.
type Cache struct {
	load  Loader
	ttl   time.Duration
	group singleflight.Group

	mu        sync.RWMutex
	movies    []Movie
	fetchedAt time.Time

	ready     chan struct{}
	readyOnce sync.Once
}

// NewCache returns an empty cache. A zero ttl keeps the first successful
// load forever.
func NewCache(load Loader, ttl time.Duration) *Cache {
	return &Cache{
		load:  load,
		ttl:   ttl,
		ready: make(chan struct{}),
	}
}

// Movies returns the cached list, loading it if needed. Concurrent callers
// share a single in-flight load.
func (c *Cache) Movies(ctx context.Context) ([]Movie, error) {
	if movies, ok := c.cached(); ok {
		return movies, nil
	}

	ch := c.group.DoChan("movies", func() (any, error) {
		// One caller going away must not abort the load for the others.
		movies, err := c.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.store(movies)
		return movies, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("load movies: %w", res.Err)
		}
		movies, _ := res.Val.([]Movie)
		return slices.Clone(movies), nil
	}
}

// Ready is closed once the first load has succeeded. It replaces any fixed
// delay for code that must not run before the list is available.
func (c *Cache) Ready() <-chan struct{} { return c.ready }

func (c *Cache) cached() ([]Movie, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.movies == nil {
		return nil, false
	}
	if c.ttl > 0 && time.Since(c.fetchedAt) >= c.ttl {
		return nil, false
	}
	return slices.Clone(c.movies), true
}

func (c *Cache) store(movies []Movie) {
	if movies == nil {
		movies = []Movie{}
	}
	c.mu.Lock()
	c.movies = movies
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	c.readyOnce.Do(func() { close(c.ready) })
}
