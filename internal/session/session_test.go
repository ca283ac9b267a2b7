package session

import (
	"testing"

	"github.com/julianstephens/confi/internal/models"
)

func TestLoginLogout(t *testing.T) {
	s := New()
	if s.LoggedIn() || s.UserID() != "" {
		t.Fatal("new session should be logged out")
	}

	s.SetView(models.ViewLearning)
	s.Login(models.UserProfile{ID: "user_1", Username: "ana"})

	if !s.LoggedIn() || s.UserID() != "user_1" {
		t.Errorf("expected user_1 logged in, got %q", s.UserID())
	}
	if s.View() != models.ViewDashboard {
		t.Errorf("login should select the dashboard, got %s", s.View())
	}
	if u, ok := s.User(); !ok || u.Username != "ana" {
		t.Errorf("unexpected user %+v", u)
	}

	s.Logout()
	if s.LoggedIn() || s.UserID() != "" {
		t.Error("expected logged out after Logout")
	}
	if _, ok := s.User(); ok {
		t.Error("User should report false when logged out")
	}
}

func TestViewCycling(t *testing.T) {
	s := New()
	s.Login(models.UserProfile{ID: "u"})

	seen := []models.ViewState{s.View()}
	for i := 0; i < len(models.Views()); i++ {
		seen = append(seen, s.NextView())
	}
	if seen[len(seen)-1] != models.ViewDashboard {
		t.Errorf("expected cycle back to dashboard, got %s", seen[len(seen)-1])
	}
	if s.PrevView() != models.ViewAffirmations {
		t.Error("expected Prev from dashboard to wrap to affirmations")
	}
}
