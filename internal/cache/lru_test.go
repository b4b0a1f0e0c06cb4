package cache

import (
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func TestLRUCacheGetSet(t *testing.T) {
	c := NewLRUCache[string](2, 0)
	c.Set("a", "1")
	c.Set("b", "2")

	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get(a) = %q, %v", v, ok)
	}
	c.Set("b", "3")
	if v, _ := c.Get("b"); v != "3" {
		t.Fatalf("overwrite failed, got %q", v)
	}
	if c.Size() != 2 {
		t.Fatalf("Size = %d, want 2", c.Size())
	}
}

func TestLRUCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUCache[int](2, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatalf("b should have been evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a was used recently and should remain")
	}
}

func TestLRUCacheTTL(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	c := NewLRUCacheWithClock[int](10, time.Minute, clock.now)
	c.Set("a", 1)
	c.Set("b", 2)

	clock.advance(30 * time.Second)
	if _, ok := c.Get("a"); !ok {
		t.Fatalf("a should still be fresh")
	}

	clock.advance(time.Minute)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should have expired")
	}
	if removed := c.CleanExpired(); removed != 1 {
		t.Fatalf("CleanExpired = %d, want 1", removed)
	}
	if c.Size() != 0 {
		t.Fatalf("Size = %d, want 0", c.Size())
	}
}

func TestLRUCacheDeleteAndClear(t *testing.T) {
	c := NewLRUCache[int](5, 0)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("a should be gone")
	}
	c.Clear()
	if c.Size() != 0 {
		t.Fatalf("Size after Clear = %d", c.Size())
	}
	c.Set("c", 3)
	if v, ok := c.Get("c"); !ok || v != 3 {
		t.Fatalf("cache unusable after Clear")
	}
}
