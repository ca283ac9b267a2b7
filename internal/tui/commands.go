package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/models"
)

// origin tags a result with the session generation that asked for it.
type origin struct {
	generation int
}

func (o origin) from() int { return o.generation }

type result interface {
	from() int
}

type chatReplyMsg struct {
	origin
	reply coach.Result[string]
}

type planMsg struct {
	origin
	plan models.Plan
	err  error
}

type promptMsg struct {
	origin
	prompt coach.Result[string]
}

type topicMsg struct {
	origin
	topic   models.LearningTopic
	summary coach.Result[string]
	err     error
}

type affirmationMsg struct {
	origin
	affirmation models.Affirmation
	result      coach.Result[string]
	err         error
}

type insightsMsg struct {
	origin
	insights coach.Result[[]string]
}

// begin marks a request in flight and starts the spinner alongside it.
func (m *Model) begin(label string, cmd tea.Cmd) tea.Cmd {
	m.loading = label
	m.alert = ""
	m.notice = ""
	return tea.Batch(cmd, m.spinner.Tick)
}

func (m Model) sendChat(text string) tea.Cmd {
	svc, session, from := m.svc, m.chat, origin{m.generation}
	return func() tea.Msg {
		ctx, cancel := svc.request()
		defer cancel()
		return chatReplyMsg{origin: from, reply: svc.Coach.Chat(ctx, session, text)}
	}
}

func (m Model) draftPlan(goal string) tea.Cmd {
	svc, from := m.svc, origin{m.generation}
	return func() tea.Msg {
		ctx, cancel := svc.request()
		defer cancel()
		plan, err := svc.Challenges.Draft(ctx, goal)
		return planMsg{origin: from, plan: plan, err: err}
	}
}

func (m Model) fetchPrompt() tea.Cmd {
	svc, from := m.svc, origin{m.generation}
	return func() tea.Msg {
		ctx, cancel := svc.request()
		defer cancel()
		return promptMsg{origin: from, prompt: svc.Journal.Prompt(ctx)}
	}
}

func (m Model) fetchSummary(topic models.LearningTopic) tea.Cmd {
	svc, from := m.svc, origin{m.generation}
	return func() tea.Msg {
		ctx, cancel := svc.request()
		defer cancel()
		t, res, err := svc.Learning.Summary(ctx, topic.ID)
		return topicMsg{origin: from, topic: t, summary: res, err: err}
	}
}

func (m Model) generateAffirmation() tea.Cmd {
	svc, userID, from := m.svc, m.session.UserID(), origin{m.generation}
	return func() tea.Msg {
		ctx, cancel := svc.request()
		defer cancel()
		a, res, err := svc.Affirmations.Generate(ctx, userID)
		return affirmationMsg{origin: from, affirmation: a, result: res, err: err}
	}
}

func (m Model) fetchInsights() tea.Cmd {
	svc, from := m.svc, origin{m.generation}
	return func() tea.Msg {
		ctx, cancel := svc.request()
		defer cancel()
		return insightsMsg{origin: from, insights: svc.Coach.Insights(ctx)}
	}
}

// fallbackNotice is shown under content that came from a canned answer.
func fallbackNotice(res interface{ IsFallback() bool }) string {
	if res.IsFallback() {
		return "Coach is offline, showing a default."
	}
	return ""
}
