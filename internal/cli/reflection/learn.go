package reflection

import (
	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/learning"
)

type LearnListCmd struct{}

func (c *LearnListCmd) Run(ctx *cli.Context) error {
	for _, t := range ctx.Learning.Topics() {
		ctx.Printf("%s. %-28s %-12s %s\n", t.ID, t.Title, t.Category, t.Description)
	}
	ctx.Println("\nRun 'confi learn show <id>' for a summary.")
	return nil
}

type LearnShowCmd struct {
	Topic string `arg:"" help:"Topic id or title."`
}

func (c *LearnShowCmd) Run(ctx *cli.Context) error {
	if _, err := learning.Find(c.Topic); err != nil {
		return err
	}

	reqCtx, cancel := ctx.Request()
	defer cancel()

	topic, res, err := ctx.Learning.Summary(reqCtx, c.Topic)
	if err != nil {
		return err
	}
	ctx.Printf("%s · %s\n\n", topic.Title, topic.Category)
	ctx.Println(res.Value)
	ctx.FallbackNote(res.Cause)
	return nil
}
