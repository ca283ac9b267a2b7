package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/confi/internal/identity"
	"github.com/julianstephens/confi/internal/models"
)

const (
	actionSignIn = "signin"
	actionSignUp = "signup"
)

func newSignInForm(f *signInFields) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Username").
				Value(&f.Username).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return identity.ErrEmptyUsername
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Action").
				Options(
					huh.NewOption("Sign in", actionSignIn),
					huh.NewOption("Sign up", actionSignUp),
				).
				Value(&f.Action),
		),
	).WithShowHelp(false)
}

func (m Model) authenticate() (models.UserProfile, error) {
	ctx := context.Background()
	if m.signIn.Action == actionSignUp {
		return m.svc.Users.Signup(ctx, m.signIn.Username)
	}
	return m.svc.Users.Login(ctx, m.signIn.Username)
}

func (m Model) updateSignIn(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		user, err := m.authenticate()
		if err != nil {
			// Rebuild with the same fields so the user can correct them
			m.formError = err.Error()
			m.form = newSignInForm(m.signIn)
			return m, m.form.Init()
		}
		m.startSession(user)
		return m, tea.Batch(m.chatModel.Init(), m.fetchInsights())
	case huh.StateAborted:
		m.quitting = true
		return m, tea.Quit
	}
	return m, cmd
}
