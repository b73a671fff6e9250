// Package cache provides a generic byte-budget LRU cache.
//
// # Bounded[K, V]
//
// A thread-safe cache whose entries each carry a byte size. Inserting
// evicts the least recently used entries until the new one fits, so
// resource pressure is always resolved by eviction and never reported
// as an error.
//
//	c := cache.NewBounded[uint64, []byte](8 << 20)
//	c.Insert(key, buf, int64(len(buf)))
//	buf, ok := c.Get(key)
//
// Recency is an access counter bumped on every Get and Insert; the
// resident entries are kept in counter order so the oldest is found in
// constant time.
//
// # Thread Safety
//
// Bounded is safe for concurrent use and must not be copied after
// creation (it contains a mutex).
package cache
