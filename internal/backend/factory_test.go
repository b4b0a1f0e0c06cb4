package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"finanzplan/internal/config"
	"finanzplan/internal/kv"
	"finanzplan/internal/kv/memory"
	"finanzplan/internal/storage"
)

func TestBackendTypeIsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("sheets").IsValid() {
		t.Errorf("sheets should not be valid")
	}
	if got := GetBackendTypeStrings(); len(got) != 2 || got[0] != "sqlite" {
		t.Errorf("GetBackendTypeStrings = %v", got)
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "memory", DataDir: "seed", CacheSize: 4})
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if cfg.Type != MemoryBackend || cfg.DataDirectory != "seed" || cfg.CacheSize != 4 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "sheets"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatalf("expected error for nil config")
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "incomes.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatal(err)
	}

	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend, DataDirectory: dir})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	defer res.Close()
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Fatalf("store is %T, want *memory.Store", res.Store)
	}
	if v, ok, _ := res.Store.Get(context.Background(), "incomes"); !ok || v != `[]` {
		t.Fatalf("seed not loaded: %q", v)
	}
}

func TestCreateSQLiteBackendWithCache(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "finanzplan.db")

	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path, CacheSize: 8})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if _, ok := res.Store.(*kv.CachedStore); !ok {
		t.Fatalf("store is %T, want *kv.CachedStore", res.Store)
	}
	if err := res.Store.Set(ctx, "fixedCosts", `[]`); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := res.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	repo, err := storage.NewSQLiteRepository(path)
	if err != nil {
		t.Fatal(err)
	}
	defer repo.Close()
	if v, ok, _ := repo.Get(ctx, "fixedCosts"); !ok || v != `[]` {
		t.Fatalf("write did not reach sqlite: %q", v)
	}
}

func TestCreateBackendInvalid(t *testing.T) {
	f := NewFactory(nil)
	if _, err := f.CreateBackend(context.Background(), Config{Type: "sheets"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
	if _, err := f.CreateBackend(context.Background(), Config{Type: SQLiteBackend}); err == nil {
		t.Fatalf("expected error for missing sqlite path")
	}
}
