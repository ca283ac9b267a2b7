package identity

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/storage"
)

func setupDirectory(t *testing.T) *Directory {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "confi.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	n := 0
	return New(store,
		WithClock(func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC) }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("user_%d", n)
		}),
	)
}

func TestSignupAndLogin(t *testing.T) {
	d := setupDirectory(t)
	ctx := context.Background()

	created, err := d.Signup(ctx, "  Ana  ")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	want := models.UserProfile{ID: "user_1", Username: "Ana", JoinedDate: "2026-03-01T09:30:00Z"}
	if diff := cmp.Diff(want, created); diff != "" {
		t.Errorf("created profile mismatch (-want +got):\n%s", diff)
	}

	got, err := d.Login(ctx, "ana")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if diff := cmp.Diff(created, got); diff != "" {
		t.Errorf("login returned a different profile (-want +got):\n%s", diff)
	}
}

func TestSignupCaseInsensitiveDuplicate(t *testing.T) {
	d := setupDirectory(t)
	ctx := context.Background()

	if _, err := d.Signup(ctx, "Ana"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	_, err := d.Signup(ctx, "ANA")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if err.Error() != "Username already taken" {
		t.Errorf("unexpected message %q", err.Error())
	}

	users, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("expected directory unchanged, got %d users", len(users))
	}
}

func TestLoginUnknownUser(t *testing.T) {
	d := setupDirectory(t)

	_, err := d.Login(context.Background(), "ghost")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if err.Error() != "User not found. Please sign up." {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestEmptyUsername(t *testing.T) {
	d := setupDirectory(t)
	ctx := context.Background()

	if _, err := d.Login(ctx, "   "); !errors.Is(err, ErrEmptyUsername) {
		t.Errorf("Login: expected ErrEmptyUsername, got %v", err)
	}
	if _, err := d.Signup(ctx, ""); !errors.Is(err, ErrEmptyUsername) {
		t.Errorf("Signup: expected ErrEmptyUsername, got %v", err)
	}
}

func TestFindByUsernameAbsent(t *testing.T) {
	d := setupDirectory(t)

	user, err := d.FindByUsername(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("FindByUsername failed: %v", err)
	}
	if user != nil {
		t.Errorf("expected nil profile, got %+v", user)
	}
}

func TestListKeepsCreationOrder(t *testing.T) {
	d := setupDirectory(t)
	ctx := context.Background()

	for _, name := range []string{"zed", "amy", "Bo"} {
		if _, err := d.Create(ctx, name); err != nil {
			t.Fatalf("Create %s failed: %v", name, err)
		}
	}
	users, err := d.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	var names []string
	for _, u := range users {
		names = append(names, u.Username)
	}
	if diff := cmp.Diff([]string{"zed", "amy", "Bo"}, names); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
