package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/confi/internal/affirmations"
	"github.com/julianstephens/confi/internal/challenges"
	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/identity"
	"github.com/julianstephens/confi/internal/journal"
	"github.com/julianstephens/confi/internal/learning"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/session"
	"github.com/julianstephens/confi/internal/tui/components/chat"
	"github.com/julianstephens/confi/internal/tui/components/topics"
)

// Services is everything the TUI reads from or writes to.
type Services struct {
	Users        *identity.Directory
	Challenges   *challenges.Service
	Journal      *journal.Journal
	Affirmations *affirmations.Service
	Learning     *learning.Center
	Coach        coach.Gateway
	Timeout      time.Duration
}

func (s Services) request() (context.Context, context.CancelFunc) {
	if s.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), s.Timeout)
}

type SessionState int

const (
	StateSignIn SessionState = iota
	StateBrowse
	StateGoalInput
	StatePlanPreview
	StateConfirmDelete
	StateJournalWrite
)

type signInFields struct {
	Username string
	Action   string
}

type Model struct {
	svc     Services
	session *session.Session
	// generation changes on every login and logout; results carry the
	// generation they were requested in
	generation int
	state      SessionState
	keys       KeyMap
	help       help.Model
	spinner    spinner.Model
	// loading names the request in flight; empty when idle
	loading  string
	quitting bool
	width    int
	height   int

	form      *huh.Form
	signIn    *signInFields
	formError string

	chat      *coach.ChatSession
	chatModel chat.Model
	insights  []string

	challenges      []models.Challenge
	cursor          int
	goalInput       textinput.Model
	draft           *models.Plan
	alert           string
	challengeToDrop string

	summary      models.ChallengeSummary
	prompt       string
	entries      []models.JournalEntry
	journalInput textarea.Model

	topicList    topics.Model
	topic        *models.LearningTopic
	topicSummary string

	affirmations []models.Affirmation
	notice       string
}

// NewModel builds the TUI. A non-empty username is signed in straight away;
// if that fails the sign-in screen opens with the name filled in.
func NewModel(svc Services, username string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = titleStyle

	goal := textinput.New()
	goal.Placeholder = "e.g. Run a 5k, speak up in meetings..."
	goal.CharLimit = 200
	goal.Prompt = "› "

	ta := textarea.New()
	ta.Placeholder = "Write freely..."
	ta.SetHeight(5)

	m := Model{
		svc:          svc,
		session:      session.New(),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		spinner:      sp,
		signIn:       &signInFields{Action: actionSignIn},
		chatModel:    chat.New(0, 0),
		goalInput:    goal,
		journalInput: ta,
		topicList:    topics.New(svc.Learning.Topics(), 0, 0),
	}

	if username != "" {
		user, err := svc.Users.Login(context.Background(), username)
		if err == nil {
			m.startSession(user)
			return m
		}
		m.signIn.Username = username
		m.formError = err.Error()
	}

	m.state = StateSignIn
	m.form = newSignInForm(m.signIn)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.state == StateSignIn {
		return m.form.Init()
	}
	return tea.Batch(m.chatModel.Init(), m.fetchInsights())
}

// startSession signs user in and loads everything their views show.
func (m *Model) startSession(user models.UserProfile) {
	m.session.Login(user)
	m.generation++
	m.state = StateBrowse
	m.formError = ""
	m.alert = ""
	m.notice = ""
	m.cursor = 0
	m.prompt = ""
	m.topic = nil
	m.topicSummary = ""
	m.insights = nil

	m.chat = m.svc.Coach.NewChat(user.Username)
	m.chatModel.Reset()
	m.chatModel.SetTranscript(m.chat.Transcript(), "")
	m.chatModel.Focus()

	m.refresh()
	logger.Debug("TUI session started", "user", user.Username)
}

func (m *Model) logout() tea.Cmd {
	m.session.Logout()
	m.generation++
	m.chat = nil
	m.challenges = nil
	m.entries = nil
	m.affirmations = nil
	m.draft = nil
	m.loading = ""
	m.signIn = &signInFields{Action: actionSignIn}
	m.form = newSignInForm(m.signIn)
	m.state = StateSignIn
	return m.form.Init()
}

// refresh reloads the signed-in user's stored data.
func (m *Model) refresh() {
	ctx := context.Background()
	userID := m.session.UserID()

	list, err := m.svc.Challenges.List(ctx, userID)
	if err != nil {
		m.alert = "Failed to load challenges: " + err.Error()
		list = nil
	}
	m.challenges = list
	m.summary = challenges.Summarize(list)
	if m.cursor >= len(m.challenges) {
		m.cursor = max(len(m.challenges)-1, 0)
	}

	entries, err := m.svc.Journal.List(ctx, userID)
	if err != nil {
		m.alert = "Failed to load journal: " + err.Error()
	}
	m.entries = entries

	affs, err := m.svc.Affirmations.List(ctx, userID)
	if err != nil {
		m.alert = "Failed to load affirmations: " + err.Error()
	}
	m.affirmations = affs
}

func (m Model) selectedChallenge() (models.Challenge, bool) {
	if m.cursor < 0 || m.cursor >= len(m.challenges) {
		return models.Challenge{}, false
	}
	return m.challenges[m.cursor], true
}

// typing reports whether key presses go to a text field.
func (m Model) typing() bool {
	switch m.state {
	case StateSignIn, StateGoalInput, StateJournalWrite:
		return true
	case StateBrowse:
		return m.session.View() == models.ViewDashboard
	}
	return false
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Logout}
	switch m.state {
	case StateGoalInput:
		return []key.Binding{m.keys.Send, m.keys.Cancel}
	case StatePlanPreview, StateConfirmDelete:
		return []key.Binding{m.keys.Confirm, m.keys.Cancel}
	case StateJournalWrite:
		return []key.Binding{m.keys.Save, m.keys.Cancel}
	}

	switch m.session.View() {
	case models.ViewDashboard:
		keys = append(keys, m.keys.Send)
	case models.ViewChallenges:
		keys = append(keys, m.keys.New, m.keys.Toggle, m.keys.Delete)
	case models.ViewProgress:
		keys = append(keys, m.keys.Prompt, m.keys.Write)
	case models.ViewLearning:
		keys = append(keys, m.keys.Enter)
	case models.ViewAffirmations:
		keys = append(keys, m.keys.Generate)
	}
	if !m.typing() {
		keys = append(keys, m.keys.Help, m.keys.Quit)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Logout, m.keys.Help, m.keys.Quit, m.keys.ForceQuit}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Enter}
	actions := []key.Binding{m.keys.New, m.keys.Toggle, m.keys.Delete, m.keys.Prompt, m.keys.Write, m.keys.Generate}
	return [][]key.Binding{global, navigation, actions}
}
