package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/cli/accounts"
	"github.com/julianstephens/confi/internal/cli/backups"
	"github.com/julianstephens/confi/internal/cli/coaching"
	"github.com/julianstephens/confi/internal/cli/reflection"
	"github.com/julianstephens/confi/internal/cli/system"
	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/constants"
	cerrors "github.com/julianstephens/confi/internal/errors"
	"github.com/julianstephens/confi/internal/keyring"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/storage"
	"github.com/julianstephens/confi/internal/storage/postgres"
	"github.com/julianstephens/confi/internal/storage/sqlite"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string        `help:"Store location: a SQLite file (default), a .json file, or a PostgreSQL connection string without a password." env:"CONFI_CONFIG" type:"string" default:"${default_config}"`
	User    string        `help:"Username for per-user commands." env:"CONFI_USER"`
	APIKey  string        `name:"api-key" help:"Gemini API key. Falls back to the OS keyring." env:"GEMINI_API_KEY"`
	Model   string        `help:"Gemini model name." env:"CONFI_MODEL" default:"${default_model}"`
	Timeout time.Duration `help:"Timeout for each coach request." env:"CONFI_TIMEOUT" default:"30s"`
	Debug   bool          `help:"Log debug output to stderr as well as the log file."`

	Init   system.InitCmd   `cmd:"" help:"Initialize confi storage."`
	Doctor system.DoctorCmd `cmd:"" help:"Run health checks and diagnostics."`
	Tui    system.TuiCmd    `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Users  struct {
		Signup accounts.SignupCmd `cmd:"" help:"Create a profile."`
		Login  accounts.LoginCmd  `cmd:"" help:"Check a username and print how to use it."`
		List   accounts.ListCmd   `cmd:"" help:"List profiles."`
	} `cmd:"" name:"user" help:"Manage user profiles."`
	Challenge struct {
		New    coaching.ChallengeNewCmd    `cmd:"" help:"Ask the coach to design a challenge for a goal."`
		Add    coaching.ChallengeAddCmd    `cmd:"" help:"Add a challenge by hand."`
		List   coaching.ChallengeListCmd   `cmd:"" help:"List challenges and their steps."`
		Toggle coaching.ChallengeToggleCmd `cmd:"" help:"Mark a step done or not done."`
		Delete coaching.ChallengeDeleteCmd `cmd:"" help:"Delete a challenge."`
	} `cmd:"" help:"Manage challenges."`
	Progress coaching.ProgressCmd `cmd:"" help:"Show challenge progress."`
	Journal  struct {
		Prompt reflection.JournalPromptCmd `cmd:"" help:"Get a reflection prompt."`
		Add    reflection.JournalAddCmd    `cmd:"" help:"Write a journal entry."`
		List   reflection.JournalListCmd   `cmd:"" help:"List journal entries."`
	} `cmd:"" help:"Reflect and journal."`
	Affirm struct {
		New  reflection.AffirmNewCmd  `cmd:"" help:"Generate and save an affirmation." default:"1"`
		List reflection.AffirmListCmd `cmd:"" help:"Show saved affirmations."`
	} `cmd:"" help:"Daily affirmations."`
	Learn struct {
		List reflection.LearnListCmd `cmd:"" help:"List learning topics." default:"1"`
		Show reflection.LearnShowCmd `cmd:"" help:"Summarize a topic."`
	} `cmd:"" help:"Browse the learning center."`
	Chat     coaching.ChatCmd     `cmd:"" help:"Talk to your coach."`
	Insights coaching.InsightsCmd `cmd:"" help:"Show quick coaching insights."`
	Backup   struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage SQLite backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store the Gemini API key in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show the stored API key (masked)."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove the stored API key."`
		Status system.KeyringStatusCmd `cmd:"" help:"Report keyring availability."`
	} `cmd:"" help:"Manage the Gemini API key."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Confi: an AI coach for growth challenges, reflection and affirmations"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version":        constants.Version,
			"default_config": constants.DefaultConfigPath,
			"default_model":  constants.DefaultModel,
		},
	)

	config, err := expandHome(CLI.Config)
	if err != nil {
		cerrors.Fatal(err)
	}

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: logDir(config)}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to initialize logging: %v\n", err)
	}

	store, err := openStore(config)
	if err != nil {
		cerrors.Fatal(err)
	}
	defer store.Close()

	appCtx := cli.NewContext(store, selectGateway())
	appCtx.Username = CLI.User
	appCtx.Timeout = CLI.Timeout

	// init and doctor manage the store themselves; keyring never touches it
	command := ctx.Command()
	if command != "init" && command != "doctor" && !strings.HasPrefix(command, "keyring") {
		if err := store.Load(); err != nil {
			cerrors.Fatal(err)
		}
	}

	if err := ctx.Run(appCtx); err != nil {
		store.Close()
		cerrors.Fatal(err)
	}
}

func openStore(config string) (storage.Provider, error) {
	switch {
	case postgres.IsConnString(config):
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return nil, fmt.Errorf("%w; use a .pgpass file or the PGPASSWORD environment variable", err)
			}
			return nil, err
		}
		return postgres.New(config), nil
	case strings.HasSuffix(strings.ToLower(config), ".json"):
		return storage.NewJSONStore(config), nil
	}
	if !sqlite.IsSQLitePath(config) {
		return nil, fmt.Errorf("unrecognized store location %q", config)
	}
	return sqlite.NewStore(config), nil
}

// selectGateway picks Gemini when an API key is available and the offline
// coach otherwise.
func selectGateway() coach.Gateway {
	apiKey := strings.TrimSpace(CLI.APIKey)
	if apiKey == "" {
		key, err := keyring.GetAPIKey()
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			logger.Debug("Keyring lookup failed", "error", err)
		}
		apiKey = key
	}
	if apiKey == "" {
		logger.Info("No Gemini API key configured, coaching offline")
		return coach.Offline{}
	}

	gemini, err := coach.NewGemini(context.Background(), coach.GeminiConfig{
		APIKey: apiKey,
		Model:  CLI.Model,
	})
	if err != nil {
		logger.Warn("Failed to create Gemini client, coaching offline", "error", err)
		return coach.Offline{}
	}
	return gemini
}

func expandHome(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

// logDir keeps logs next to a file store and under the user config dir for
// PostgreSQL.
func logDir(config string) string {
	if !postgres.IsConnString(config) {
		return filepath.Dir(config)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, constants.AppName)
	}
	return os.TempDir()
}
