package system

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/keyring"
)

// KeyringSetCmd stores the Gemini API key in the OS keyring
type KeyringSetCmd struct {
	APIKey string `arg:"" optional:"" help:"Gemini API key. Prompted for when omitted."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	key := strings.TrimSpace(cmd.APIKey)
	if key == "" {
		err := huh.NewInput().
			Title("Gemini API key").
			EchoMode(huh.EchoModePassword).
			Validate(func(s string) error {
				if strings.TrimSpace(s) == "" {
					return errors.New("API key cannot be empty")
				}
				return nil
			}).
			Value(&key).
			Run()
		if err != nil {
			return err
		}
	}

	if err := keyring.SetAPIKey(key); err != nil {
		return err
	}

	ctx.Println("✓ API key stored in OS keyring")
	ctx.Println("  The coach will use it whenever GEMINI_API_KEY is not set")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	key, err := keyring.GetAPIKey()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring. Use 'confi keyring set' to store one")
		}
		return fmt.Errorf("failed to retrieve API key from keyring: %w", err)
	}

	ctx.Println("API key retrieved from keyring:")
	ctx.Println(keyring.Mask(key))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteAPIKey(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no API key found in keyring")
		}
		return err
	}
	ctx.Println("✓ API key deleted from OS keyring")
	return nil
}

type KeyringStatusCmd struct{}

func (cmd *KeyringStatusCmd) Run(ctx *cli.Context) error {
	if !keyring.IsAvailable() {
		ctx.Println("❌ OS keyring is not available on this system")
		return errors.New("keyring unavailable")
	}

	ctx.Println("✓ OS keyring is available")
	if _, err := keyring.GetAPIKey(); err == nil {
		ctx.Println("✓ API key is stored in keyring")
	} else if errors.Is(err, keyring.ErrNotFound) {
		ctx.Println("ℹ No API key stored in keyring")
	}
	return nil
}
