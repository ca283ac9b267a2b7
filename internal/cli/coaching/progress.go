package coaching

import (
	"context"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/models"
)

var (
	activeBar    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	completedBar = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingBar   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type ProgressCmd struct{}

func (c *ProgressCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	sum, err := ctx.Challenges.Summary(context.Background(), user.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Progress for %s\n\n", user.Username)
	ctx.Println(RenderSummary(sum))

	entries, err := ctx.Journal.List(context.Background(), user.ID)
	if err != nil {
		return err
	}
	ctx.Printf("\nJournal entries: %d\n", len(entries))
	return nil
}

// RenderSummary draws one bar per status, one block per challenge.
func RenderSummary(sum models.ChallengeSummary) string {
	rows := []struct {
		label string
		n     int
		style lipgloss.Style
	}{
		{"Active", sum.Active, activeBar},
		{"Completed", sum.Completed, completedBar},
		{"Pending", sum.Pending, pendingBar},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(lipgloss.NewStyle().Width(11).Render(r.label))
		b.WriteString(r.style.Render(strings.Repeat("█", r.n)))
		b.WriteString(" ")
		b.WriteString(strconv.Itoa(r.n))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
