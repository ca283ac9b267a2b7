package accounts

import (
	"context"

	"github.com/julianstephens/confi/internal/cli"
)

type SignupCmd struct {
	Username string `arg:"" help:"Name to sign up with (unique, case-insensitive)."`
}

func (c *SignupCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Users.Signup(context.Background(), c.Username)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Welcome, %s! Your profile id is %s\n", user.Username, user.ID)
	ctx.Printf("  Use --user %s (or export CONFI_USER=%s) with per-user commands.\n", user.Username, user.Username)
	return nil
}

type LoginCmd struct {
	Username string `arg:"" help:"Existing username."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	user, err := ctx.Users.Login(context.Background(), c.Username)
	if err != nil {
		return err
	}
	ctx.Printf("✓ Signed in as %s (joined %s)\n", user.Username, cli.FormatDate(user.JoinedDate))
	ctx.Printf("  export CONFI_USER=%s\n", user.Username)
	return nil
}

type ListCmd struct{}

func (c *ListCmd) Run(ctx *cli.Context) error {
	users, err := ctx.Users.List(context.Background())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.Println("No users yet. Run 'confi user signup <name>' to create one.")
		return nil
	}
	for _, u := range users {
		ctx.Printf("  %-20s  joined %s  (%s)\n", u.Username, cli.FormatDate(u.JoinedDate), u.ID)
	}
	return nil
}
