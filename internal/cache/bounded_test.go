package cache

import (
	"math/rand/v2"
	"strconv"
	"sync"
	"testing"
	"time"
)

// residentSum walks the recency list and sums entry sizes.
func residentSum[K comparable, V any](c *Bounded[K, V]) (sum int64, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.order.head; e != nil; e = e.next {
		sum += e.size
		n++
	}
	return sum, n
}

func TestBoundedGetInsert(t *testing.T) {
	c := NewBounded[string, int](100)
	if _, ok := c.Get("a"); ok {
		t.Fatal("Get on empty cache reported a hit")
	}
	if !c.Insert("a", 1, 10) {
		t.Fatal("Insert of a small entry failed")
	}
	v, ok := c.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = %d, %v, want 1, true", v, ok)
	}
	if got := c.Size(); got != 10 {
		t.Errorf("Size() = %d, want 10", got)
	}

	c.Insert("a", 2, 30)
	if got := c.Size(); got != 30 {
		t.Errorf("Size() after replace = %d, want 30", got)
	}
	if got := c.Len(); got != 1 {
		t.Errorf("Len() after replace = %d, want 1", got)
	}
}

func TestBoundedEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewBounded[string, int](30)
	c.Insert("a", 1, 10)
	c.Insert("b", 2, 10)
	c.Insert("c", 3, 10)

	// a becomes most recent, b is now the oldest
	c.Get("a")
	c.Insert("d", 4, 10)

	if c.Contains("b") {
		t.Error("b should have been evicted as least recently used")
	}
	for _, k := range []string{"a", "c", "d"} {
		if !c.Contains(k) {
			t.Errorf("%s should still be resident", k)
		}
	}
	if s := c.Stats(); s.Evictions != 1 {
		t.Errorf("Evictions = %d, want 1", s.Evictions)
	}
}

func TestBoundedEvictsRepeatedlyToFit(t *testing.T) {
	c := NewBounded[int, int](100)
	for i := range 10 {
		c.Insert(i, i, 10)
	}
	c.Insert(99, 99, 45)

	// five 10-byte entries must go to fit 45 bytes
	if got := c.Len(); got != 6 {
		t.Errorf("Len() = %d, want 6", got)
	}
	for i := range 5 {
		if c.Contains(i) {
			t.Errorf("entry %d should have been evicted", i)
		}
	}
	if got := c.Size(); got != 95 {
		t.Errorf("Size() = %d, want 95", got)
	}
}

func TestBoundedOversizedEntry(t *testing.T) {
	c := NewBounded[string, int](50)
	c.Insert("keep", 1, 20)
	c.Insert("big", 0, 20)

	if c.Insert("big", 2, 51) {
		t.Error("Insert of an entry larger than the budget reported success")
	}
	if c.Contains("big") {
		t.Error("oversized entry is resident")
	}
	if !c.Contains("keep") {
		t.Error("oversized insert evicted unrelated entries")
	}
	if got := c.Size(); got != 20 {
		t.Errorf("Size() = %d, want 20", got)
	}
}

func TestBoundedZeroBudget(t *testing.T) {
	c := NewBounded[string, int](0)
	if c.Insert("a", 1, 1) {
		t.Error("zero-budget cache stored a sized entry")
	}
	if !c.Insert("free", 1, 0) {
		t.Error("zero-budget cache rejected a zero-size entry")
	}
}

func TestBoundedRemoveClear(t *testing.T) {
	c := NewBounded[string, int](100)
	c.Insert("a", 1, 10)
	c.Insert("b", 2, 20)

	if !c.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if c.Remove("a") {
		t.Error("second Remove(a) = true, want false")
	}
	if got := c.Size(); got != 20 {
		t.Errorf("Size() = %d, want 20", got)
	}

	c.Clear()
	if c.Len() != 0 || c.Size() != 0 {
		t.Errorf("after Clear: Len = %d, Size = %d", c.Len(), c.Size())
	}
}

func TestBoundedOnEvict(t *testing.T) {
	c := NewBounded[string, int](10)
	var evicted []string
	c.OnEvict(func(k string, _ int) { evicted = append(evicted, k) })

	c.Insert("a", 1, 10)
	c.Insert("b", 2, 10)
	c.Remove("b")

	if len(evicted) != 1 || evicted[0] != "a" {
		t.Errorf("evicted = %v, want [a]", evicted)
	}
}

func TestBoundedOnEvictMayUseCache(t *testing.T) {
	c := NewBounded[string, int](10)
	var lens []int
	c.OnEvict(func(k string, _ int) {
		lens = append(lens, c.Len())
		c.Remove(k) // already gone; must not deadlock
	})

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.Insert("a", 1, 5)
		c.Insert("b", 2, 5)
		c.Insert("c", 3, 10)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Insert deadlocked calling OnEvict")
	}
	if len(lens) != 2 {
		t.Fatalf("OnEvict ran %d times, want 2", len(lens))
	}
	for i, n := range lens {
		if n != 1 {
			t.Errorf("eviction %d saw Len = %d, want 1 (the new entry)", i, n)
		}
	}
}

func TestBoundedStats(t *testing.T) {
	c := NewBounded[string, int](100)
	c.Insert("a", 1, 1)
	c.Get("a")
	c.Get("a")
	c.Get("missing")

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 1 {
		t.Errorf("Hits, Misses = %d, %d, want 2, 1", s.Hits, s.Misses)
	}
	if s.HitRate < 0.66 || s.HitRate > 0.67 {
		t.Errorf("HitRate = %v, want ~0.667", s.HitRate)
	}
}

// TestBoundedSizeInvariant drives a random operation sequence and checks
// the size bookkeeping after every step.
func TestBoundedSizeInvariant(t *testing.T) {
	r := rand.New(rand.NewPCG(11, 12))
	c := NewBounded[int, int](1000)

	for step := 0; step < 5000; step++ {
		key := r.IntN(64)
		switch r.IntN(4) {
		case 0, 1:
			c.Insert(key, step, int64(r.IntN(300)))
		case 2:
			c.Get(key)
		case 3:
			c.Remove(key)
		}

		sum, n := residentSum(c)
		if got := c.Size(); got != sum {
			t.Fatalf("step %d: Size() = %d, resident sum = %d", step, got, sum)
		}
		if got := c.Len(); got != n {
			t.Fatalf("step %d: Len() = %d, list length = %d", step, got, n)
		}
		if c.Size() > c.MaxSize() {
			t.Fatalf("step %d: Size() = %d exceeds MaxSize() = %d", step, c.Size(), c.MaxSize())
		}
	}
}

func TestBoundedRecencyOrderMatchesLastUse(t *testing.T) {
	r := rand.New(rand.NewPCG(21, 22))
	c := NewBounded[int, int](1 << 20)
	lastUse := make(map[int]int)
	for i := 0; i < 2000; i++ {
		k := r.IntN(50)
		if r.IntN(2) == 0 {
			c.Insert(k, i, 1)
			lastUse[k] = i
		} else if _, ok := c.Get(k); ok {
			lastUse[k] = i
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for e := c.order.head; e != nil && e.next != nil; e = e.next {
		if lastUse[e.key] <= lastUse[e.next.key] {
			t.Fatalf("list out of order: key %d used at %d before key %d used at %d",
				e.key, lastUse[e.key], e.next.key, lastUse[e.next.key])
		}
	}
}

func TestBoundedConcurrent(t *testing.T) {
	c := NewBounded[int, int](500)
	var wg sync.WaitGroup
	for g := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				k := (g*1000 + i) % 97
				if i%3 == 0 {
					c.Insert(k, i, int64(i%40))
				} else {
					c.Get(k)
				}
			}
		}()
	}
	wg.Wait()

	if sum, _ := residentSum(c); sum != c.Size() || c.Size() > c.MaxSize() {
		t.Errorf("Size() = %d, resident sum = %d, MaxSize() = %d", c.Size(), sum, c.MaxSize())
	}
}

func BenchmarkBoundedGet(b *testing.B) {
	c := NewBounded[string, int](1 << 20)
	for i := 0; i < 100; i++ {
		c.Insert(strconv.Itoa(i), i, 64)
	}
	for b.Loop() {
		c.Get("50")
	}
}

func BenchmarkBoundedInsertEvict(b *testing.B) {
	c := NewBounded[int, int](64 * 100)
	i := 0
	for b.Loop() {
		c.Insert(i, i, 64)
		i++
	}
}
