package topics

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/confi/internal/models"
)

// SummarizeMsg asks the parent to fetch a summary for the selected topic.
type SummarizeMsg struct {
	Topic models.LearningTopic
}

type Item struct {
	Topic models.LearningTopic
}

func (i Item) Title() string       { return i.Topic.Title }
func (i Item) Description() string { return i.Topic.Category + " · " + i.Topic.Description }
func (i Item) FilterValue() string { return i.Topic.Title }

type KeyMap struct {
	Summarize key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Summarize: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "summarize"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(topics []models.LearningTopic, width, height int) Model {
	items := make([]list.Item, len(topics))
	for i, t := range topics {
		items[i] = Item{Topic: t}
	}

	l := list.New(items, list.NewDefaultDelegate(), width, height)
	l.Title = "Learning"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	// Quitting is the parent's decision
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Summarize}
	}

	return Model{list: l, keys: keys}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Summarize) {
		if i, ok := m.list.SelectedItem().(Item); ok {
			return m, func() tea.Msg { return SummarizeMsg{Topic: i.Topic} }
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No topics available."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Selected returns the highlighted topic.
func (m Model) Selected() (models.LearningTopic, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Topic, ok
}
