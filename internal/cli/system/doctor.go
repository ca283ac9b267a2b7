package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/constants"
	"github.com/julianstephens/confi/internal/keyring"
	"github.com/julianstephens/confi/internal/storage"
)

type DoctorCmd struct {
	Fix bool `help:"Remove collections whose owner is no longer in the user directory."`
}

type severity int

const (
	required severity = iota
	advisory
)

type check struct {
	name    string
	level   severity
	needsDB bool
	run     func(ctx *cli.Context) error
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	checks := []check{
		{name: "Store reachable", level: required, run: checkStoreReachable},
		{name: "Schema version", level: required, needsDB: true, run: checkSchemaVersion},
		{name: "User directory", level: required, needsDB: true, run: checkUsers},
		{name: "Orphaned collections", level: advisory, needsDB: true, run: cmd.checkOrphans},
		{name: "Backups present", level: advisory, run: checkBackupsPresent},
		{name: "Coach API key", level: advisory, run: checkAPIKey},
		{name: "Single writer", level: advisory, run: checkOtherProcesses},
	}

	hasError := false
	reachable := true
	for _, c := range checks {
		if c.needsDB && !reachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case c.level == advisory:
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", err)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Store reachable" {
				reachable = false
			}
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}
	ctx.Println("All diagnostics passed!")
	return nil
}

func checkStoreReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load store: %w", err)
	}
	if _, _, err := ctx.Store.Get(context.Background(), constants.UsersKey); err != nil {
		return fmt.Errorf("failed to read store: %w", err)
	}
	return nil
}

type schemaChecker interface {
	SchemaUpToDate() (bool, error)
}

func checkSchemaVersion(ctx *cli.Context) error {
	sc, ok := ctx.Store.(schemaChecker)
	if !ok {
		// JSON store has no schema
		return nil
	}
	upToDate, err := sc.SchemaUpToDate()
	if err != nil {
		return err
	}
	if !upToDate {
		return errors.New("pending migrations; run 'confi init' to apply them")
	}
	return nil
}

func checkUsers(ctx *cli.Context) error {
	users, err := ctx.Users.List(context.Background())
	if err != nil {
		return err
	}
	seen := map[string]bool{}
	for _, u := range users {
		name := strings.ToLower(u.Username)
		if seen[name] {
			return fmt.Errorf("duplicate username %q", u.Username)
		}
		seen[name] = true
	}
	return nil
}

// orphanedKeys returns collection keys whose user id has no profile.
func orphanedKeys(ctx *cli.Context) ([]string, error) {
	users, err := ctx.Users.List(context.Background())
	if err != nil {
		return nil, err
	}
	known := make(map[string]bool, len(users))
	for _, u := range users {
		known[u.ID] = true
	}

	keys, err := ctx.Store.Keys(context.Background(), constants.KeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	var orphans []string
	for _, key := range keys {
		if userID, _, ok := storage.ParseKey(key); ok && !known[userID] {
			orphans = append(orphans, key)
		}
	}
	return orphans, nil
}

func (cmd *DoctorCmd) checkOrphans(ctx *cli.Context) error {
	orphans, err := orphanedKeys(ctx)
	if err != nil {
		return err
	}
	if len(orphans) == 0 {
		return nil
	}
	if !cmd.Fix {
		return fmt.Errorf("%d collection(s) belong to unknown users: %s (run 'confi doctor --fix' to remove them)",
			len(orphans), strings.Join(orphans, ", "))
	}
	for _, key := range orphans {
		if err := ctx.Store.Delete(context.Background(), key); err != nil {
			return fmt.Errorf("failed to remove %s: %w", key, err)
		}
	}
	ctx.Printf("   Removed %d orphaned collection(s)\n", len(orphans))
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	mgr := ctx.BackupManager()
	if mgr == nil {
		return errors.New("backups are only taken for SQLite stores")
	}
	backups, err := mgr.List()
	if err != nil {
		return err
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found in %s (run 'confi backup create')", mgr.Dir())
	}
	return nil
}

func checkAPIKey(ctx *cli.Context) error {
	if _, offline := ctx.Coach.(coach.Offline); !offline {
		return nil
	}
	if !keyring.IsAvailable() {
		return errors.New("no Gemini API key configured and the OS keyring is unavailable; set GEMINI_API_KEY")
	}
	return errors.New("no Gemini API key configured; the coach will answer with defaults (run 'confi keyring set')")
}

// checkOtherProcesses warns when another confi is running: both rewrite
// whole collections, so concurrent sessions can drop each other's changes.
func checkOtherProcesses(_ *cli.Context) error {
	others, err := otherInstances(os.Getpid())
	if err != nil {
		return fmt.Errorf("could not list processes: %w", err)
	}
	if len(others) > 0 {
		return fmt.Errorf("%d other confi process(es) running (pid %s); concurrent writers may lose updates",
			len(others), strings.Join(others, ", "))
	}
	return nil
}

func otherInstances(self int) ([]string, error) {
	procs, err := ps.Processes()
	if err != nil {
		return nil, err
	}
	var pids []string
	for _, p := range procs {
		if p.Pid() == self {
			continue
		}
		exe := strings.TrimSuffix(filepath.Base(p.Executable()), filepath.Ext(p.Executable()))
		if exe == constants.AppName {
			pids = append(pids, fmt.Sprint(p.Pid()))
		}
	}
	return pids, nil
}
