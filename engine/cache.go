package engine

import (
	"sort"
	"sync"
)

// DefaultCheckEvery is how far a cache may grow past its size before it is swept.
const DefaultCheckEvery = 10

type cacheEntry[V any] struct {
	key      string
	value    V
	priority int
	seq      uint64
}

// Cache is a least frequently used cache. Every hit raises the priority of an entry.
// Once the cache holds size+checkEvery entries, storing a new key first sweeps it down
// to the size entries of the highest priority; ties keep the older entry.
//
// New entries start at the highest priority swept so far, so that they are not
// evicted by long living entries on the very next sweep.
type Cache[V any] struct {
	mu         sync.Mutex
	size       int
	checkEvery int
	entries    map[string]*cacheEntry[V]
	offset     int
	seq        uint64
}

// NewCache creates a cache keeping at least size entries.
func NewCache[V any](size, checkEvery int) *Cache[V] {
	if size < 1 {
		size = 1
	}
	if checkEvery < 1 {
		checkEvery = DefaultCheckEvery
	}
	return &Cache[V]{
		size:       size,
		checkEvery: checkEvery,
		entries:    make(map[string]*cacheEntry[V], size+checkEvery),
	}
}

// Get returns the value stored under key and counts the hit.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	e.priority++
	return e.value, true
}

// Store adds value under key and returns the keys evicted to make room for it.
// Replacing the value of a present key keeps its priority.
func (c *Cache[V]) Store(key string, value V) []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		return nil
	}

	var evicted []string
	if len(c.entries) >= c.size+c.checkEvery {
		evicted = c.sweep()
	}

	c.seq++
	c.entries[key] = &cacheEntry[V]{
		key:      key,
		value:    value,
		priority: c.offset,
		seq:      c.seq,
	}
	return evicted
}

func (c *Cache[V]) sweep() []string {
	all := make([]*cacheEntry[V], 0, len(c.entries))
	for _, e := range c.entries {
		all = append(all, e)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].priority != all[j].priority {
			return all[i].priority > all[j].priority
		}
		return all[i].seq < all[j].seq
	})

	if len(all) <= c.size {
		return nil
	}

	evicted := make([]string, 0, len(all)-c.size)
	for _, e := range all[c.size:] {
		delete(c.entries, e.key)
		evicted = append(evicted, e.key)
	}
	// the first evicted entry has the highest priority of the evicted ones
	c.offset = all[c.size].priority
	return evicted
}

// Remove deletes key from the cache.
func (c *Cache[V]) Remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// ReduceOffset lowers every priority by the current offset, keeping counters small
// in long running processes.
func (c *Cache[V]) ReduceOffset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, e := range c.entries {
		e.priority -= c.offset
	}
	c.offset = 0
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear drops every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
	c.offset = 0
}
