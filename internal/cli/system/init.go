package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/storage/postgres"
)

type InitCmd struct {
	Force bool `help:"Delete the existing local store before initializing."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if _, isPG := ctx.Store.(*postgres.Store); isPG {
			return fmt.Errorf("--force is not supported for PostgreSQL; drop the confi schema manually")
		}
		path := ctx.Store.GetConfigPath()
		if _, err := os.Stat(path); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing store: %w", err)
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("failed to delete existing store: %w", err)
			}
			ctx.Printf("Deleted existing store at: %s\n", path)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing store: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized confi storage at: %s\n", ctx.Store.GetConfigPath())
	ctx.Println("Next: confi user signup <name>")
	return nil
}
