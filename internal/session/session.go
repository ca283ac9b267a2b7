package session

import (
	"sync"

	"github.com/julianstephens/confi/internal/models"
)

// Session is the in-memory state of one signed-in user: who they are and
// which view they are looking at. It is never persisted.
type Session struct {
	mu   sync.RWMutex
	user *models.UserProfile
	view models.ViewState
}

func New() *Session {
	return &Session{}
}

// Login makes user current and resets the view to the dashboard.
func (s *Session) Login(user models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = &user
	s.view = models.ViewDashboard
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.view = models.ViewDashboard
}

func (s *Session) LoggedIn() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// User returns the current profile and false when logged out.
func (s *Session) User() (models.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return models.UserProfile{}, false
	}
	return *s.user, true
}

// UserID is empty when logged out, which storage treats as "no user".
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return ""
	}
	return s.user.ID
}

func (s *Session) View() models.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Session) SetView(v models.ViewState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = v
}

func (s *Session) NextView() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.Next()
	return s.view
}

func (s *Session) PrevView() models.ViewState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.view = s.view.Prev()
	return s.view
}
