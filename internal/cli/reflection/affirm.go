package reflection

import (
	"context"

	"github.com/julianstephens/confi/internal/affirmations"
	"github.com/julianstephens/confi/internal/cli"
)

type AffirmNewCmd struct{}

func (c *AffirmNewCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	reqCtx, cancel := ctx.Request()
	defer cancel()

	a, res, err := ctx.Affirmations.Generate(reqCtx, user.ID)
	if err != nil {
		return err
	}
	ctx.Printf("✨ %q\n", a.Text)
	ctx.FallbackNote(res.Cause)
	return nil
}

type AffirmListCmd struct{}

func (c *AffirmListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	list, err := ctx.Affirmations.List(context.Background(), user.ID)
	if err != nil {
		return err
	}

	ctx.Printf("Featured: %q\n", affirmations.Featured(list))
	if len(list) <= 1 {
		ctx.Println("No history yet.")
		return nil
	}
	ctx.Println("\nRecent:")
	for _, a := range list[1:] {
		ctx.Printf("  %s  %s\n", cli.FormatDate(a.Date), a.Text)
	}
	return nil
}
