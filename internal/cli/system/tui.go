package system

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	ctx.PerformAutomaticBackup()

	model := tui.NewModel(tui.Services{
		Users:        ctx.Users,
		Challenges:   ctx.Challenges,
		Journal:      ctx.Journal,
		Affirmations: ctx.Affirmations,
		Learning:     ctx.Learning,
		Coach:        ctx.Coach,
		Timeout:      ctx.Timeout,
	}, ctx.Username)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
