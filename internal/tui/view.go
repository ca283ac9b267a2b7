package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/confi/internal/affirmations"
	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/cli/coaching"
	"github.com/julianstephens/confi/internal/models"
)

// recentEntries is how many journal entries the progress view lists.
const recentEntries = 3

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.state == StateSignIn {
		return m.viewSignIn()
	}

	var content string
	switch m.session.View() {
	case models.ViewDashboard:
		content = m.viewDashboard()
	case models.ViewChallenges:
		content = m.viewChallenges()
	case models.ViewProgress:
		content = m.viewProgress()
	case models.ViewLearning:
		content = m.viewLearning()
	case models.ViewAffirmations:
		content = m.viewAffirmations()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		docStyle.Render(content),
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewSignIn() string {
	parts := []string{
		titleStyle.Render("Confi"),
		mutedStyle.Render("Your AI coach for personal growth"),
		"",
		m.form.View(),
	}
	if m.formError != "" {
		parts = append(parts, "", dangerStyle.Render(m.formError))
	}
	return docStyle.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) viewTabs() string {
	var tabs []string
	for _, v := range models.Views() {
		if m.session.View() == v {
			tabs = append(tabs, activeTabStyle.Render(v.String()))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(v.String()))
		}
	}
	if user, ok := m.session.User(); ok {
		tabs = append(tabs, mutedStyle.Render("  @"+user.Username))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	switch {
	case m.loading != "":
		return "  " + m.spinner.View() + " " + m.loading + "..."
	case m.alert != "":
		return "  " + dangerStyle.Render(m.alert)
	case m.notice != "":
		return "  " + warningStyle.Render(m.notice)
	}
	return ""
}

func (m Model) viewDashboard() string {
	if len(m.insights) == 0 {
		return m.chatModel.View()
	}
	var b strings.Builder
	for _, in := range m.insights {
		b.WriteString(mutedStyle.Render("• " + in))
		b.WriteString("\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, b.String(), m.chatModel.View())
}

func (m Model) viewChallenges() string {
	switch m.state {
	case StateGoalInput:
		return lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("What do you want to achieve?"),
			"",
			m.goalInput.View(),
		)
	case StatePlanPreview:
		return m.viewPlanPreview()
	case StateConfirmDelete:
		return lipgloss.JoinVertical(lipgloss.Left,
			dangerStyle.Render("Are you sure you want to delete this challenge?"),
			"",
			"[y] Yes",
			"[n] No",
		)
	}

	if len(m.challenges) == 0 {
		return "No challenges yet.\nPress 'n' to start one."
	}

	var b strings.Builder
	for i, c := range m.challenges {
		marker := "  "
		if i == m.cursor {
			marker = titleStyle.Render("› ")
		}
		status := mutedStyle.Render(fmt.Sprintf("[%s] %d/%d", c.Status, c.CompletedCount(), len(c.SubTasks)))
		b.WriteString(marker + c.Title + " " + status + "\n")

		if i != m.cursor {
			continue
		}
		if c.Description != "" {
			b.WriteString("    " + mutedStyle.Render(c.Description) + "\n")
		}
		b.WriteString("    " + mutedStyle.Render("Ends "+cli.FormatDate(c.EndDate)) + "\n")
		for j, st := range c.SubTasks {
			box := "[ ]"
			title := st.Title
			if st.IsCompleted {
				box = doneStyle.Render("[x]")
				title = mutedStyle.Render(title)
			}
			b.WriteString(fmt.Sprintf("    %s. %s %s\n", stepLabel(j), box, title))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (m Model) viewPlanPreview() string {
	if m.draft == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render(m.draft.Title) + "\n")
	b.WriteString(m.draft.Description + "\n\n")
	for i, st := range m.draft.SubTasks {
		b.WriteString(fmt.Sprintf("%s. %s\n", stepLabel(i), st))
	}
	b.WriteString("\nAccept this challenge? [y] Yes  [n] No")
	return boxStyle.Render(b.String())
}

func (m Model) viewProgress() string {
	parts := []string{
		titleStyle.Render("Challenges"),
		coaching.RenderSummary(m.summary),
		"",
		titleStyle.Render("Reflection"),
	}

	if m.prompt != "" {
		parts = append(parts, m.prompt)
	} else {
		parts = append(parts, mutedStyle.Render("Press 'p' for a prompt, or 'w' to write freely."))
	}
	parts = append(parts, "")

	if m.state == StateJournalWrite {
		parts = append(parts, m.journalInput.View(), mutedStyle.Render("ctrl+s to save, esc to cancel"))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	parts = append(parts, titleStyle.Render("Journal"))
	if len(m.entries) == 0 {
		parts = append(parts, mutedStyle.Render("No entries yet."))
	}
	for i, e := range m.entries {
		if i == recentEntries {
			parts = append(parts, mutedStyle.Render(fmt.Sprintf("... and %d more", len(m.entries)-recentEntries)))
			break
		}
		parts = append(parts, mutedStyle.Render(cli.FormatTime(e.Date)+"  "+e.Prompt), "  "+e.Content)
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m Model) viewLearning() string {
	if m.topic == nil || m.topicSummary == "" {
		return m.topicList.View()
	}
	summary := titleStyle.Render(m.topic.Title) + "\n\n" + m.topicSummary + "\n\n" + mutedStyle.Render("esc to go back")
	w := m.width - 8
	if w < 20 {
		w = 60
	}
	return boxStyle.Width(w).Render(summary)
}

func (m Model) viewAffirmations() string {
	parts := []string{
		featuredStyle.Render(affirmations.Featured(m.affirmations)),
		"",
	}
	if len(m.affirmations) > 1 {
		parts = append(parts, titleStyle.Render("Recent"))
		for _, a := range m.affirmations[1:] {
			parts = append(parts, mutedStyle.Render(cli.FormatDate(a.Date))+"  "+a.Text)
		}
	} else {
		parts = append(parts, mutedStyle.Render("Press 'g' for a new affirmation."))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
