package reflection

import (
	"context"

	"github.com/julianstephens/confi/internal/cli"
)

type JournalPromptCmd struct{}

func (c *JournalPromptCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.Request()
	defer cancel()

	res := ctx.Journal.Prompt(reqCtx)
	ctx.Println(res.Value)
	ctx.FallbackNote(res.Cause)
	return nil
}

type JournalAddCmd struct {
	Content string `arg:"" help:"What you want to write down."`
	Prompt  string `short:"p" help:"The question this entry answers. Defaults to 'Self Reflection'."`
	Ask     bool   `help:"Ask the coach for a prompt first and file the entry under it."`
}

func (c *JournalAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	prompt := c.Prompt
	if prompt == "" && c.Ask {
		reqCtx, cancel := ctx.Request()
		prompt = ctx.Journal.Prompt(reqCtx).Value
		cancel()
	}

	entry, err := ctx.Journal.Add(context.Background(), user.ID, prompt, c.Content)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Saved under %q\n", entry.Prompt)
	return nil
}

type JournalListCmd struct {
	Limit int `short:"n" default:"0" help:"Show at most this many entries (0 for all)."`
}

func (c *JournalListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	entries, err := ctx.Journal.List(context.Background(), user.ID)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.Println("No journal entries yet. Start reflecting with 'confi journal add'.")
		return nil
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	for _, e := range entries {
		ctx.Printf("%s  %s\n", cli.FormatTime(e.Date), e.Prompt)
		ctx.Printf("  %s\n\n", e.Content)
	}
	return nil
}
