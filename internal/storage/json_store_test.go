package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestJSONStoreInitTwice(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "confi.json")
	store := NewJSONStore(path)

	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected storage file to exist: %v", err)
	}
	if err := NewJSONStore(path).Init(); err == nil {
		t.Error("expected error initializing an existing store")
	}
}

func TestJSONStoreLoadUninitialized(t *testing.T) {
	store := NewJSONStore(filepath.Join(t.TempDir(), "missing.json"))
	if err := store.Load(); err == nil {
		t.Error("expected error loading missing store")
	}
	if _, _, err := store.Get(context.Background(), "k"); err == nil {
		t.Error("expected error reading from unloaded store")
	}
}

func TestJSONStorePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "confi.json")
	ctx := context.Background()

	store := NewJSONStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if err := store.Set(ctx, "confi_users", `[{"id":"u1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Set(ctx, "confi_u1_challenges", `[]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	reopened := NewJSONStore(path)
	if err := reopened.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	value, found, err := reopened.Get(ctx, "confi_users")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !found || value != `[{"id":"u1"}]` {
		t.Errorf("unexpected value %q (found=%v)", value, found)
	}

	keys, err := reopened.Keys(ctx, "confi_u1_")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if diff := cmp.Diff([]string{"confi_u1_challenges"}, keys); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestJSONStoreDelete(t *testing.T) {
	store := setupJSONStore(t)
	ctx := context.Background()

	if err := store.Set(ctx, "a", "1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found, _ := store.Get(ctx, "a"); found {
		t.Error("expected key to be gone")
	}
	// Deleting a missing key is fine
	if err := store.Delete(ctx, "a"); err != nil {
		t.Errorf("Delete of missing key failed: %v", err)
	}
}
