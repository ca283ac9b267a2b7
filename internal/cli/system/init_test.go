package system

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/storage"
	"github.com/julianstephens/confi/internal/storage/postgres"
	"github.com/julianstephens/confi/internal/storage/sqlite"
)

func setupTestInitDB(t *testing.T) (*cli.Context, string, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	ctx := cli.NewContext(store, coach.Offline{})
	ctx.Out = &bytes.Buffer{}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, dbPath, cleanup
}

func TestInitCmd_Success(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("init command failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Errorf("database file was not created at %s", dbPath)
	}
	if !strings.Contains(ctx.Out.(*bytes.Buffer).String(), "confi user signup") {
		t.Error("expected next-step hint")
	}
}

func TestInitCmd_Idempotent(t *testing.T) {
	ctx, _, cleanup := setupTestInitDB(t)
	defer cleanup()

	cmd := &InitCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("second init failed (should be idempotent): %v", err)
	}
}

func TestInitCmd_ForceDeletesExisting(t *testing.T) {
	ctx, dbPath, cleanup := setupTestInitDB(t)
	defer cleanup()

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("initial init failed: %v", err)
	}
	if _, err := ctx.Users.Signup(t.Context(), "ana"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Fatalf("forced init failed: %v", err)
	}
	if _, err := os.Stat(dbPath); err != nil {
		t.Fatalf("expected database to be recreated: %v", err)
	}

	users, err := ctx.Users.List(t.Context())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 0 {
		t.Errorf("expected fresh store, got %d users", len(users))
	}
}

func TestInitCmd_JSONStoreRefusesSecondInit(t *testing.T) {
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "confi.json"))
	ctx := cli.NewContext(store, coach.Offline{})
	ctx.Out = &bytes.Buffer{}

	if err := (&InitCmd{}).Run(ctx); err != nil {
		t.Fatalf("first init failed: %v", err)
	}
	if err := (&InitCmd{}).Run(ctx); err == nil {
		t.Error("expected second init of a JSON store to fail")
	}
	if err := (&InitCmd{Force: true}).Run(ctx); err != nil {
		t.Errorf("forced init failed: %v", err)
	}
}

func TestInitCmd_ForceRejectedForPostgres(t *testing.T) {
	ctx := cli.NewContext(postgres.New("postgres://confi@localhost/confi"), coach.Offline{})
	ctx.Out = &bytes.Buffer{}

	err := (&InitCmd{Force: true}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "not supported for PostgreSQL") {
		t.Errorf("expected --force to be refused, got %v", err)
	}
}
