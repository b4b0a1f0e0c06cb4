package memory

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"finanzplan/internal/kv"
)

// Store keeps every value in a map guarded by a mutex.
type Store struct {
	mu     sync.Mutex
	values map[string]string
}

func New() *Store {
	return &Store{values: make(map[string]string)}
}

// NewFromFiles seeds the store from <base>/<key>.json files.
// A missing or unreadable directory yields an empty store.
func NewFromFiles(base string) *Store {
	s := New()
	entries, err := os.ReadDir(base)
	if err != nil {
		return s
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(base, name))
		if err != nil {
			slog.Warn("Skipping unreadable seed file", "path", name, "error", err)
			continue
		}
		s.values[strings.TrimSuffix(name, ".json")] = strings.TrimSpace(string(data))
	}
	return s
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	key, err := kv.CheckKey(key)
	if err != nil {
		return "", false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	key, err := kv.CheckKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *Store) Remove(_ context.Context, key string) error {
	key, err := kv.CheckKey(key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Len reports how many keys are stored.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.values)
}
