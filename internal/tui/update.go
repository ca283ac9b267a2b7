package tui

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/confi/internal/challenges"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/tui/components/topics"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case spinner.TickMsg:
		if m.loading == "" {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.ForceQuit) {
			m.quitting = true
			return m, tea.Quit
		}

	case chatReplyMsg, planMsg, promptMsg, topicMsg, affirmationMsg, insightsMsg:
		return m.handleResult(msg)

	case topics.SummarizeMsg:
		if m.loading != "" {
			return m, nil
		}
		m.topic = &msg.Topic
		m.topicSummary = ""
		cmd := m.begin("Summarizing "+msg.Topic.Title, m.fetchSummary(msg.Topic))
		return m, cmd
	}

	switch m.state {
	case StateSignIn:
		return m.updateSignIn(msg)
	case StateGoalInput:
		return m.updateGoalInput(msg)
	case StatePlanPreview:
		return m.updatePlanPreview(msg)
	case StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	case StateJournalWrite:
		return m.updateJournalWrite(msg)
	}
	return m.updateBrowse(msg)
}

func (m *Model) resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	m.width = width
	m.height = height
	m.help.Width = width

	// Tabs, status line and help take about six rows
	body := max(height-8, 3)
	m.chatModel.SetSize(max(width-4, 10), max(body-len(m.insights)-1, 1))
	m.topicList.SetSize(width-4, body/2)
	m.journalInput.SetWidth(max(width-6, 20))
	m.goalInput.Width = max(width-8, 20)
}

// handleResult applies the outcome of a background request. Results from an
// earlier session, or arriving after logout, are dropped untouched.
func (m Model) handleResult(msg tea.Msg) (tea.Model, tea.Cmd) {
	if r, ok := msg.(result); !ok || r.from() != m.generation || !m.session.LoggedIn() {
		return m, nil
	}
	m.loading = ""

	switch msg := msg.(type) {
	case chatReplyMsg:
		m.chatModel.SetTranscript(m.chat.Transcript(), "")

	case planMsg:
		if msg.err != nil {
			m.alert = msg.err.Error()
			m.state = StateBrowse
			return m, nil
		}
		plan := msg.plan
		m.draft = &plan
		m.state = StatePlanPreview

	case promptMsg:
		m.prompt = msg.prompt.Value
		m.notice = fallbackNotice(msg.prompt)

	case topicMsg:
		if msg.err != nil {
			m.alert = msg.err.Error()
			return m, nil
		}
		m.topic = &msg.topic
		m.topicSummary = msg.summary.Value
		m.notice = fallbackNotice(msg.summary)

	case affirmationMsg:
		if msg.err != nil {
			m.alert = "Failed to save affirmation: " + msg.err.Error()
			return m, nil
		}
		m.notice = fallbackNotice(msg.result)
		m.refresh()

	case insightsMsg:
		m.insights = msg.insights.Value
		m.resize(m.width, m.height)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if m.session.View() == models.ViewDashboard {
			var cmd tea.Cmd
			m.chatModel, cmd = m.chatModel.Update(msg)
			return m, cmd
		}
		if m.session.View() == models.ViewLearning {
			var cmd tea.Cmd
			m.topicList, cmd = m.topicList.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Tab):
		m.switchView(m.session.NextView())
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.switchView(m.session.PrevView())
		return m, nil
	case key.Matches(keyMsg, m.keys.Logout):
		cmd := m.logout()
		return m, cmd
	}

	if !m.typing() {
		switch {
		case key.Matches(keyMsg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(keyMsg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	switch m.session.View() {
	case models.ViewDashboard:
		return m.updateDashboard(keyMsg)
	case models.ViewChallenges:
		return m.updateChallenges(keyMsg)
	case models.ViewProgress:
		return m.updateProgress(keyMsg)
	case models.ViewLearning:
		return m.updateLearning(keyMsg)
	case models.ViewAffirmations:
		if key.Matches(keyMsg, m.keys.Generate) && m.loading == "" {
			cmd := m.begin("Finding your words", m.generateAffirmation())
			return m, cmd
		}
	}
	return m, nil
}

func (m *Model) switchView(v models.ViewState) {
	m.alert = ""
	m.notice = ""
	m.help.ShowAll = false
	if v == models.ViewDashboard {
		m.chatModel.Focus()
	} else {
		m.chatModel.Blur()
	}
}

func (m Model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Send) {
		text := m.chatModel.Value()
		if text == "" || m.loading != "" {
			return m, nil
		}
		m.chatModel.Reset()
		m.chatModel.SetTranscript(m.chat.Transcript(), text)
		cmd := m.begin("Coach is thinking", m.sendChat(text))
		return m, cmd
	}

	var cmd tea.Cmd
	m.chatModel, cmd = m.chatModel.Update(msg)
	return m, cmd
}

func (m Model) updateChallenges(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.challenges)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.New):
		if m.loading != "" {
			return m, nil
		}
		m.alert = ""
		m.goalInput.Reset()
		m.state = StateGoalInput
		cmd := m.goalInput.Focus()
		return m, cmd
	case key.Matches(msg, m.keys.Delete):
		if c, ok := m.selectedChallenge(); ok {
			m.challengeToDrop = c.ID
			m.state = StateConfirmDelete
		}
	case key.Matches(msg, m.keys.Toggle):
		m.toggleSubTask(msg.String())
	}
	return m, nil
}

// toggleSubTask flips the numbered step of the highlighted challenge.
func (m *Model) toggleSubTask(ref string) {
	c, ok := m.selectedChallenge()
	if !ok {
		return
	}
	subTaskID, err := challenges.ResolveSubTask(c, ref)
	if err != nil {
		return
	}
	if _, _, err := m.svc.Challenges.ToggleSubTask(context.Background(), m.session.UserID(), c.ID, subTaskID); err != nil {
		m.alert = "Failed to update challenge: " + err.Error()
		return
	}
	m.refresh()
}

func (m Model) updateGoalInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyEsc:
			m.goalInput.Blur()
			m.state = StateBrowse
			return m, nil
		case tea.KeyEnter:
			goal := strings.TrimSpace(m.goalInput.Value())
			if goal == "" {
				m.alert = challenges.ErrEmptyGoal.Error()
				return m, nil
			}
			m.goalInput.Blur()
			m.state = StateBrowse
			cmd := m.begin("Designing your challenge", m.draftPlan(goal))
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.goalInput, cmd = m.goalInput.Update(msg)
	return m, cmd
}

func (m Model) updatePlanPreview(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		if m.draft != nil {
			created, err := m.svc.Challenges.Create(context.Background(), m.session.UserID(), *m.draft)
			if err != nil {
				m.alert = "Failed to save challenge: " + err.Error()
			} else {
				logger.Debug("Challenge accepted", "id", created.ID)
				m.cursor = 0
				m.refresh()
			}
		}
		m.draft = nil
		m.state = StateBrowse
	case key.Matches(k, m.keys.Cancel):
		m.draft = nil
		m.state = StateBrowse
	}
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(k, m.keys.Confirm):
		if err := m.svc.Challenges.Delete(context.Background(), m.session.UserID(), m.challengeToDrop); err != nil {
			m.alert = "Failed to delete challenge: " + err.Error()
		}
		m.refresh()
		m.challengeToDrop = ""
		m.state = StateBrowse
	case key.Matches(k, m.keys.Cancel):
		m.challengeToDrop = ""
		m.state = StateBrowse
	}
	return m, nil
}

func (m Model) updateProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Prompt):
		if m.loading == "" {
			cmd := m.begin("Thinking of a question", m.fetchPrompt())
			return m, cmd
		}
	case key.Matches(msg, m.keys.Write):
		m.journalInput.Reset()
		m.state = StateJournalWrite
		cmd := m.journalInput.Focus()
		return m, cmd
	}
	return m, nil
}

func (m Model) updateJournalWrite(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch {
		case k.Type == tea.KeyEsc:
			m.journalInput.Blur()
			m.state = StateBrowse
			return m, nil
		case key.Matches(k, m.keys.Save):
			content := m.journalInput.Value()
			if _, err := m.svc.Journal.Add(context.Background(), m.session.UserID(), m.prompt, content); err != nil {
				m.alert = err.Error()
				return m, nil
			}
			m.journalInput.Blur()
			m.prompt = ""
			m.state = StateBrowse
			m.notice = "Entry saved."
			m.refresh()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.journalInput, cmd = m.journalInput.Update(msg)
	return m, cmd
}

func (m Model) updateLearning(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		m.topic = nil
		m.topicSummary = ""
		return m, nil
	}
	var cmd tea.Cmd
	m.topicList, cmd = m.topicList.Update(msg)
	return m, cmd
}

func stepLabel(i int) string {
	return strconv.Itoa(i + 1)
}
