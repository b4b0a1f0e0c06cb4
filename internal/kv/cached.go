package kv

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"finanzplan/internal/cache"
)

type cachedValue struct {
	value string
	ok    bool
}

// CachedStore is a read-through, write-through cache in front of a Store.
// Missing keys are cached too so repeated lookups of an empty collection
// do not reach the backend.
type CachedStore struct {
	next   Store
	cache  cache.Cache[cachedValue]
	group  singleflight.Group
	logger *slog.Logger
}

// NewCachedStore wraps next with an LRU cache of the given size and TTL.
func NewCachedStore(next Store, size int, ttl time.Duration, logger *slog.Logger) *CachedStore {
	return newCachedStore(next, cache.NewLRUCache[cachedValue](size, ttl), logger)
}

func newCachedStore(next Store, c cache.Cache[cachedValue], logger *slog.Logger) *CachedStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedStore{next: next, cache: c, logger: logger}
}

func (s *CachedStore) Get(ctx context.Context, key string) (string, bool, error) {
	key, err := CheckKey(key)
	if err != nil {
		return "", false, err
	}
	if hit, ok := s.cache.Get(key); ok {
		s.logger.DebugContext(ctx, "Cache hit", "key", key)
		return hit.value, hit.ok, nil
	}

	res, err, _ := s.group.Do(key, func() (any, error) {
		v, ok, err := s.next.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		cv := cachedValue{value: v, ok: ok}
		s.cache.Set(key, cv)
		return cv, nil
	})
	if err != nil {
		return "", false, err
	}
	cv := res.(cachedValue)
	return cv.value, cv.ok, nil
}

func (s *CachedStore) Set(ctx context.Context, key, value string) error {
	key, err := CheckKey(key)
	if err != nil {
		return err
	}
	if err := s.next.Set(ctx, key, value); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, cachedValue{value: value, ok: true})
	return nil
}

func (s *CachedStore) Remove(ctx context.Context, key string) error {
	key, err := CheckKey(key)
	if err != nil {
		return err
	}
	if err := s.next.Remove(ctx, key); err != nil {
		s.cache.Delete(key)
		return err
	}
	s.cache.Set(key, cachedValue{})
	return nil
}

// Invalidate drops every cached entry.
func (s *CachedStore) Invalidate() {
	s.cache.Clear()
}
