package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"finanzplan/internal/kv"
)

func TestMemoryStoreSetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, ok, err := s.Get(ctx, "incomes"); err != nil || ok {
		t.Fatalf("expected missing key, got ok=%v err=%v", ok, err)
	}
	if err := s.Set(ctx, "incomes", `[]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if v, ok, _ := s.Get(ctx, "incomes"); !ok || v != `[]` {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	if err := s.Remove(ctx, "incomes"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, "incomes"); err != nil {
		t.Fatalf("removing a missing key should succeed: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("Len = %d, want 0", s.Len())
	}
}

func TestMemoryStoreRejectsEmptyKey(t *testing.T) {
	if err := New().Set(context.Background(), "  ", "x"); !errors.Is(err, kv.ErrEmptyKey) {
		t.Fatalf("expected ErrEmptyKey, got %v", err)
	}
}

func TestNewFromFiles(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "fixedCosts.json"), []byte(`[{"name":"Miete","betrag":950}]`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := NewFromFiles(dir)
	v, ok, err := s.Get(context.Background(), "fixedCosts")
	if err != nil || !ok || v != `[{"name":"Miete","betrag":950}]` {
		t.Fatalf("seeded value = %q, ok=%v err=%v", v, ok, err)
	}
	if s.Len() != 1 {
		t.Fatalf("Len = %d, want 1", s.Len())
	}

	if NewFromFiles(filepath.Join(dir, "missing")).Len() != 0 {
		t.Fatalf("missing directory should give an empty store")
	}
}
