package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/confi/internal/affirmations"
	"github.com/julianstephens/confi/internal/backup"
	"github.com/julianstephens/confi/internal/challenges"
	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/constants"
	"github.com/julianstephens/confi/internal/identity"
	"github.com/julianstephens/confi/internal/journal"
	"github.com/julianstephens/confi/internal/learning"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/storage"
	"github.com/julianstephens/confi/internal/storage/sqlite"
)

var ErrNoUser = errors.New("no user selected: pass --user or set CONFI_USER")

// Context is handed to every command's Run method.
type Context struct {
	Store        storage.Provider
	Coach        coach.Gateway
	Users        *identity.Directory
	Challenges   *challenges.Service
	Journal      *journal.Journal
	Affirmations *affirmations.Service
	Learning     *learning.Center

	// Username is the --user flag; per-user commands resolve it through Login
	Username string
	Timeout  time.Duration
	Out      io.Writer
	In       io.Reader

	// Confirm asks a yes/no question; replaced in tests
	Confirm func(title, description string) (bool, error)
}

func NewContext(store storage.Provider, gateway coach.Gateway) *Context {
	return &Context{
		Store:        store,
		Coach:        gateway,
		Users:        identity.New(store),
		Challenges:   challenges.NewService(store, gateway),
		Journal:      journal.New(store, gateway),
		Affirmations: affirmations.NewService(store, gateway),
		Learning:     learning.NewCenter(gateway),
		Timeout:      constants.DefaultRequestTimeout,
		Out:          os.Stdout,
		In:           os.Stdin,
		Confirm:      confirmWithForm,
	}
}

func confirmWithForm(title, description string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// CurrentUser resolves --user to a stored profile.
func (c *Context) CurrentUser(ctx context.Context) (models.UserProfile, error) {
	if c.Username == "" {
		return models.UserProfile{}, ErrNoUser
	}
	return c.Users.Login(ctx, c.Username)
}

// Request returns a context bounded by the configured coach timeout.
func (c *Context) Request() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Out, args...)
}

// BackupManager returns nil unless the store is a SQLite file.
func (c *Context) BackupManager() *backup.Manager {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return nil
	}
	return backup.NewManager(c.Store.GetConfigPath())
}

// PerformAutomaticBackup creates a backup and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	mgr := c.BackupManager()
	if mgr == nil {
		return
	}
	if _, err := mgr.Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// FormatTime renders a stored RFC3339 timestamp for display.
func FormatTime(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format(constants.DisplayTimeFormat)
}

// FormatDate renders a stored RFC3339 timestamp as a calendar date.
func FormatDate(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format(constants.DateFormat)
}

// FallbackNote is printed under output that came from a canned answer.
func (c *Context) FallbackNote(cause error) {
	if cause == nil {
		return
	}
	if errors.Is(cause, coach.ErrNoAPIKey) {
		c.Println("  (offline: set GEMINI_API_KEY or run 'confi keyring set' for live coaching)")
		return
	}
	c.Println("  (coach unavailable, showing a default)")
}
