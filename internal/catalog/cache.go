package catalog

import (
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"

	"expandc/internal/symbols"
	"expandc/internal/types"
)

// Key identifies one cached catalog.
type Key struct {
	Owner types.TypeID
	Ctx   symbols.Context
	AsOf  symbols.Tick
}

func (k Key) String() string {
	return fmt.Sprintf("%d/%d/%d/%d", k.Owner, k.Ctx.Module, k.Ctx.File, k.AsOf)
}

// Cache is a read-mostly, insert-once-per-key store for built catalogs.
// Concurrent builds for the same key are de-duplicated through
// singleflight, so independent call sites may resolve in parallel.
// Entries are pure derived data: callers must treat the returned slice as
// read-only.
type Cache struct {
	Builder *Builder

	mu      sync.RWMutex
	entries map[Key][]Candidate
	group   singleflight.Group
}

func NewCache(b *Builder) *Cache {
	return &Cache{
		Builder: b,
		entries: make(map[Key][]Candidate),
	}
}

// Get returns the catalog for the key, building it on first use.
func (c *Cache) Get(key Key) []Candidate {
	c.mu.RLock()
	got, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return got
	}
	v, _, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.RLock()
		cached, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return cached, nil
		}
		built := c.Builder.Build(key.Owner, key.Ctx, key.AsOf)
		c.mu.Lock()
		c.entries[key] = built
		c.mu.Unlock()
		return built, nil
	})
	cands, _ := v.([]Candidate)
	return cands
}

// Len returns the number of cached catalogs.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Snapshot returns a copy of the current entries, for persisting.
func (c *Cache) Snapshot() map[Key][]Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[Key][]Candidate, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out
}

// Prime seeds the cache with previously built catalogs. Existing keys are
// kept: entries are insert-once.
func (c *Cache) Prime(entries map[Key][]Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range entries {
		if _, ok := c.entries[k]; !ok {
			c.entries[k] = v
		}
	}
}

// Invalidate drops every cached catalog for the owner. Call it when the
// owning type's constructor set changes; catalogs are re-derived, never
// patched in place.
func (c *Cache) Invalidate(owner types.TypeID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k := range c.entries {
		if k.Owner == owner {
			delete(c.entries, k)
		}
	}
}
