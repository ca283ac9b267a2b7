package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/confi/internal/coach"
)

var (
	coachStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model renders a chat transcript above a single-line prompt.
type Model struct {
	viewport   viewport.Model
	input      textinput.Model
	transcript []coach.Message
	pending    string
	width      int
}

func New(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask your coach anything..."
	ti.CharLimit = 500
	ti.Prompt = "› "
	ti.Focus()

	return Model{
		viewport: viewport.New(width, height),
		input:    ti,
		width:    width,
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)

	// Arrow keys belong to the input; only paging scrolls the transcript
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyPgUp || k.Type == tea.KeyPgDown) {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left, m.viewport.View(), "", m.input.View())
}

// Value is the trimmed text currently typed.
func (m Model) Value() string {
	return strings.TrimSpace(m.input.Value())
}

func (m *Model) Reset() {
	m.input.Reset()
}

func (m *Model) Focus() tea.Cmd {
	return m.input.Focus()
}

func (m *Model) Blur() {
	m.input.Blur()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.viewport.Width = width
	// Leave room for the blank line and the prompt
	m.viewport.Height = max(height-2, 1)
	m.input.Width = max(width-4, 10)
	m.Render()
}

// SetTranscript replaces the rendered conversation; pending is the message
// still waiting for a reply.
func (m *Model) SetTranscript(transcript []coach.Message, pending string) {
	m.transcript = transcript
	m.pending = pending
	m.Render()
}

func (m *Model) Render() {
	wrap := lipgloss.NewStyle()
	if m.width > 0 {
		wrap = wrap.Width(m.width)
	}

	var b strings.Builder
	for _, msg := range m.transcript {
		speaker := coachStyle.Render("Confi")
		if msg.Role == coach.RoleUser {
			speaker = userStyle.Render("You")
		}
		b.WriteString(wrap.Render(speaker + ": " + msg.Text))
		b.WriteString("\n\n")
	}
	if m.pending != "" {
		b.WriteString(wrap.Render(userStyle.Render("You") + ": " + m.pending))
		b.WriteString("\n\n")
		b.WriteString(pendingStyle.Render("Confi is typing..."))
	}

	m.viewport.SetContent(strings.TrimRight(b.String(), "\n"))
	m.viewport.GotoBottom()
}

// Pending returns the message awaiting a reply, if any.
func (m Model) Pending() string {
	return m.pending
}
