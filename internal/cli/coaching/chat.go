package coaching

import (
	"bufio"
	"context"
	"strings"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/coach"
)

type ChatCmd struct {
	Message string `short:"m" help:"Send a single message and exit instead of starting a conversation."`
}

func (c *ChatCmd) Run(ctx *cli.Context) error {
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		return err
	}

	session := ctx.Coach.NewChat(user.Username)
	ctx.Printf("Confi: %s\n", coach.Greeting(user.Username))

	if c.Message != "" {
		reply(ctx, session, c.Message)
		return nil
	}

	ctx.Println("(type 'exit' or press Ctrl+D to leave)")
	scanner := bufio.NewScanner(ctx.In)
	for {
		ctx.Printf("\nYou: ")
		if !scanner.Scan() {
			ctx.Println()
			return scanner.Err()
		}
		msg := strings.TrimSpace(scanner.Text())
		if msg == "" {
			continue
		}
		if msg == "exit" || msg == "quit" {
			return nil
		}
		reply(ctx, session, msg)
	}
}

func reply(ctx *cli.Context, session *coach.ChatSession, msg string) {
	reqCtx, cancel := ctx.Request()
	defer cancel()

	res := ctx.Coach.Chat(reqCtx, session, msg)
	ctx.Printf("Confi: %s\n", res.Value)
	ctx.FallbackNote(res.Cause)
}

type InsightsCmd struct{}

func (c *InsightsCmd) Run(ctx *cli.Context) error {
	reqCtx, cancel := ctx.Request()
	defer cancel()

	res := ctx.Coach.Insights(reqCtx)
	ctx.Println("Today's insights:")
	for _, insight := range res.Value {
		ctx.Printf("  • %s\n", insight)
	}
	ctx.FallbackNote(res.Cause)
	return nil
}
