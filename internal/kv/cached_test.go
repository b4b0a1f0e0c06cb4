package kv

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"finanzplan/internal/cache"
)

// countingStore is a map-backed Store that counts backend reads.
type countingStore struct {
	mu     sync.Mutex
	values map[string]string
	gets   atomic.Int32
	failOn string
	delay  time.Duration
}

func newCountingStore() *countingStore {
	return &countingStore{values: map[string]string{}}
}

func (s *countingStore) Get(_ context.Context, key string) (string, bool, error) {
	s.gets.Add(1)
	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *countingStore) Set(_ context.Context, key, value string) error {
	if key == s.failOn {
		return errors.New("write failed")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *countingStore) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

func TestCachedStoreReadThrough(t *testing.T) {
	ctx := context.Background()
	backend := newCountingStore()
	backend.values["incomes"] = `[1]`
	s := NewCachedStore(backend, 10, 0, nil)

	for i := 0; i < 3; i++ {
		v, ok, err := s.Get(ctx, "incomes")
		if err != nil || !ok || v != `[1]` {
			t.Fatalf("Get = %q, %v, %v", v, ok, err)
		}
	}
	if n := backend.gets.Load(); n != 1 {
		t.Fatalf("backend reads = %d, want 1", n)
	}
}

func TestCachedStoreCachesMisses(t *testing.T) {
	ctx := context.Background()
	backend := newCountingStore()
	s := NewCachedStore(backend, 10, 0, nil)

	s.Get(ctx, "expenses")
	s.Get(ctx, "expenses")
	if n := backend.gets.Load(); n != 1 {
		t.Fatalf("backend reads = %d, want 1", n)
	}
}

func TestCachedStoreWriteThrough(t *testing.T) {
	ctx := context.Background()
	backend := newCountingStore()
	s := NewCachedStore(backend, 10, 0, nil)

	if err := s.Set(ctx, "fixedCosts", `[]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if backend.values["fixedCosts"] != `[]` {
		t.Fatalf("value not written to backend")
	}
	if v, ok, _ := s.Get(ctx, "fixedCosts"); !ok || v != `[]` {
		t.Fatalf("Get after Set = %q, %v", v, ok)
	}
	if backend.gets.Load() != 0 {
		t.Fatalf("Get after Set should be served from cache")
	}

	if err := s.Remove(ctx, "fixedCosts"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "fixedCosts"); ok {
		t.Fatalf("removed key still visible")
	}
}

func TestCachedStoreFailedWriteInvalidates(t *testing.T) {
	ctx := context.Background()
	backend := newCountingStore()
	backend.values["savingsPlans"] = `old`
	backend.failOn = "savingsPlans"
	s := NewCachedStore(backend, 10, 0, nil)

	s.Get(ctx, "savingsPlans")
	if err := s.Set(ctx, "savingsPlans", `new`); err == nil {
		t.Fatalf("expected write error")
	}
	if v, _, _ := s.Get(ctx, "savingsPlans"); v != `old` {
		t.Fatalf("Get after failed write = %q, want old", v)
	}
	if n := backend.gets.Load(); n != 2 {
		t.Fatalf("failed write should force a fresh read, reads = %d", n)
	}
}

func TestCachedStoreCoalescesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	backend := newCountingStore()
	backend.values["incomes"] = `[]`
	backend.delay = 20 * time.Millisecond
	s := newCachedStore(backend, cache.NewLRUCache[cachedValue](10, 0), nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := s.Get(ctx, "incomes"); err != nil {
				t.Errorf("Get: %v", err)
			}
		}()
	}
	wg.Wait()
	if n := backend.gets.Load(); n > 2 {
		t.Fatalf("backend reads = %d, want concurrent misses coalesced", n)
	}
}

func TestCachedStoreInvalidate(t *testing.T) {
	ctx := context.Background()
	backend := newCountingStore()
	s := NewCachedStore(backend, 10, 0, nil)
	s.Get(ctx, "a")
	s.Invalidate()
	s.Get(ctx, "a")
	if n := backend.gets.Load(); n != 2 {
		t.Fatalf("backend reads = %d, want 2", n)
	}
}
