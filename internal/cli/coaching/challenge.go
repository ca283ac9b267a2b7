package coaching

import (
	"context"

	"github.com/julianstephens/confi/internal/challenges"
	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/models"
)

type ChallengeNewCmd struct {
	Goal string `arg:"" help:"What you want to achieve, in your own words."`
	Yes  bool   `short:"y" help:"Save the drafted plan without asking."`
}

func (c *ChallengeNewCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	reqCtx, cancel := ctx.Request()
	defer cancel()

	ctx.Println("Drafting a plan with your coach...")
	plan, err := ctx.Challenges.Draft(reqCtx, c.Goal)
	if err != nil {
		return err
	}
	printPlan(ctx, plan)

	if !c.Yes {
		ok, err := ctx.Confirm("Save this challenge?", "It runs for the next 14 days.")
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Discarded.")
			return nil
		}
	}

	created, err := ctx.Challenges.Create(context.Background(), user.ID, plan)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Challenge saved (%s), ends %s\n", shortID(created.ID), cli.FormatDate(created.EndDate))
	return nil
}

type ChallengeAddCmd struct {
	Title       string   `required:"" help:"Challenge title."`
	Description string   `help:"Why this matters."`
	Task        []string `name:"task" short:"t" help:"Sub-task title; repeat for each sub-task."`
}

func (c *ChallengeAddCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	created, err := ctx.Challenges.Create(context.Background(), user.ID, models.Plan{
		Title:       c.Title,
		Description: c.Description,
		SubTasks:    c.Task,
	})
	if err != nil {
		return err
	}
	ctx.Printf("✓ Challenge saved (%s) with %d sub-task(s)\n", shortID(created.ID), len(created.SubTasks))
	return nil
}

type ChallengeListCmd struct{}

func (c *ChallengeListCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	list, err := ctx.Challenges.List(context.Background(), user.ID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		ctx.Println("No challenges yet. Try: confi challenge new \"run a 5k\"")
		return nil
	}

	for i, ch := range list {
		ctx.Printf("%d. %s [%s] %d/%d  (%s, until %s)\n",
			i+1, ch.Title, ch.Status, ch.CompletedCount(), len(ch.SubTasks), shortID(ch.ID), cli.FormatDate(ch.EndDate))
		if ch.Description != "" {
			ctx.Printf("   %s\n", ch.Description)
		}
		for j, st := range ch.SubTasks {
			mark := " "
			if st.IsCompleted {
				mark = "x"
			}
			ctx.Printf("   [%s] %d. %s\n", mark, j+1, st.Title)
		}
	}
	return nil
}

type ChallengeToggleCmd struct {
	Challenge string `arg:"" help:"Challenge number, id or id prefix."`
	SubTask   string `arg:"" help:"Sub-task number or id."`
}

func (c *ChallengeToggleCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	list, err := ctx.Challenges.List(context.Background(), user.ID)
	if err != nil {
		return err
	}
	ch, err := challenges.ResolveChallenge(list, c.Challenge)
	if err != nil {
		return err
	}
	subTaskID, err := challenges.ResolveSubTask(*ch, c.SubTask)
	if err != nil {
		return err
	}

	updated, found, err := ctx.Challenges.ToggleSubTask(context.Background(), user.ID, ch.ID, subTaskID)
	if err != nil {
		return err
	}
	if !found {
		// Removed between list and toggle
		ctx.Println("Nothing changed: the challenge or sub-task no longer exists.")
		return nil
	}

	st := updated.SubTasks[updated.SubTaskIndex(subTaskID)]
	state := "open"
	if st.IsCompleted {
		state = "done"
	}
	ctx.Printf("✓ %q marked %s (%d/%d)\n", st.Title, state, updated.CompletedCount(), len(updated.SubTasks))
	if updated.Status == models.ChallengeCompleted {
		ctx.Printf("🎉 Challenge %q completed!\n", updated.Title)
	}
	return nil
}

type ChallengeDeleteCmd struct {
	Challenge string `arg:"" help:"Challenge number, id or id prefix."`
	Force     bool   `short:"f" help:"Delete without confirmation."`
}

func (c *ChallengeDeleteCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}
	list, err := ctx.Challenges.List(context.Background(), user.ID)
	if err != nil {
		return err
	}
	ch, err := challenges.ResolveChallenge(list, c.Challenge)
	if err != nil {
		return err
	}

	if !c.Force {
		ok, err := ctx.Confirm("Delete this challenge?", ch.Title)
		if err != nil {
			return err
		}
		if !ok {
			ctx.Println("Cancelled.")
			return nil
		}
	}

	if err := ctx.Challenges.Delete(context.Background(), user.ID, ch.ID); err != nil {
		return err
	}
	ctx.Printf("✓ Deleted %q\n", ch.Title)
	return nil
}

func printPlan(ctx *cli.Context, plan models.Plan) {
	ctx.Println()
	ctx.Printf("  %s\n", plan.Title)
	if plan.Description != "" {
		ctx.Printf("  %s\n", plan.Description)
	}
	for i, t := range plan.SubTasks {
		ctx.Printf("   %d. %s\n", i+1, t)
	}
	ctx.Println()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
