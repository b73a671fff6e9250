package cache

import "sync"

// Bounded is a thread-safe LRU cache with a byte budget.
//
// Every entry carries a caller-supplied byte size. Size always equals
// the sum of resident entry sizes and never exceeds MaxSize; Insert
// evicts the least recently used entries, one at a time, until the new
// entry fits. Eviction runs inline within Insert.
//
// Bounded must not be copied after creation (has mutex).
type Bounded[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]*entry[K, V]
	order   recency[K, V]
	size    int64
	maxSize int64

	hits, misses, evictions uint64
	onEvict                 func(K, V)
}

// NewBounded creates a cache holding at most maxSize bytes.
// A non-positive maxSize caches nothing.
func NewBounded[K comparable, V any](maxSize int64) *Bounded[K, V] {
	return &Bounded[K, V]{
		entries: make(map[K]*entry[K, V]),
		maxSize: max(maxSize, 0),
	}
}

// OnEvict registers fn to be called for every entry dropped to make
// room. It runs after Insert has released the cache lock, so fn may use
// the cache.
func (c *Bounded[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the value for key and marks it most recently used.
func (c *Bounded[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(e)
	return e.value, true
}

// Contains reports whether key is resident without touching its recency.
func (c *Bounded[K, V]) Contains(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// Insert stores value under key with the given byte size, replacing any
// previous value. Least recently used entries are evicted until the new
// entry fits. An entry larger than MaxSize is not stored and Insert
// returns false; any previous value for key is still removed.
func (c *Bounded[K, V]) Insert(key K, value V, size int64) bool {
	size = max(size, 0)

	c.mu.Lock()
	if old, ok := c.entries[key]; ok {
		c.drop(old)
	}
	if size > c.maxSize {
		c.mu.Unlock()
		return false
	}

	var victims []*entry[K, V]
	for c.size+size > c.maxSize {
		victim := c.order.oldest()
		if victim == nil {
			break
		}
		c.drop(victim)
		c.evictions++
		victims = append(victims, victim)
	}

	e := &entry[K, V]{key: key, value: value, size: size}
	c.entries[key] = e
	c.order.pushFront(e)
	c.size += size
	onEvict := c.onEvict
	c.mu.Unlock()

	if onEvict != nil {
		for _, v := range victims {
			onEvict(v.key, v.value)
		}
	}
	return true
}

// Remove deletes key. It reports whether the key was resident.
func (c *Bounded[K, V]) Remove(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.drop(e)
	return true
}

// Clear removes every entry. Statistics are kept.
func (c *Bounded[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.order.clear()
	c.size = 0
}

// Len returns the number of resident entries.
func (c *Bounded[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Size returns the sum of resident entry sizes.
func (c *Bounded[K, V]) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// MaxSize returns the byte budget.
func (c *Bounded[K, V]) MaxSize() int64 {
	return c.maxSize
}

// Stats returns a snapshot of cache statistics.
func (c *Bounded[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Size:      c.size,
		MaxSize:   c.maxSize,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// drop unlinks e and subtracts its size. Caller must hold c.mu.
func (c *Bounded[K, V]) drop(e *entry[K, V]) {
	delete(c.entries, e.key)
	c.order.unlink(e)
	c.size -= e.size
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Size is the current sum of entry sizes in bytes.
	Size int64
	// MaxSize is the byte budget.
	MaxSize int64
	// Hits is the number of Get calls that found their key.
	Hits uint64
	// Misses is the number of Get calls that did not.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), or 0 before any Get.
	HitRate float64
	// Evictions is the number of entries dropped to make room.
	Evictions uint64
}
