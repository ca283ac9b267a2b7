package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/confi/internal/constants"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/storage"
)

var (
	ErrUsernameTaken = errors.New("Username already taken")
	ErrUserNotFound  = errors.New("User not found. Please sign up.")
	ErrEmptyUsername = errors.New("Please enter a username.")
)

// Directory is the list of known profiles kept under the global users key.
// There are no credentials: knowing a username is enough to act as that user.
type Directory struct {
	store storage.Provider
	now   func() time.Time
	newID func() string

	// mu serializes create within this process
	mu sync.Mutex
}

type Option func(*Directory)

func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(d *Directory) { d.newID = newID }
}

func New(store storage.Provider, opts ...Option) *Directory {
	d := &Directory{
		store: store,
		now:   time.Now,
		newID: func() string { return "user_" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// List returns every profile in creation order.
func (d *Directory) List(ctx context.Context) ([]models.UserProfile, error) {
	return storage.LoadList[models.UserProfile](ctx, d.store, constants.UsersKey)
}

// FindByUsername returns nil, nil when nobody has that name.
func (d *Directory) FindByUsername(ctx context.Context, username string) (*models.UserProfile, error) {
	users, err := d.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		if users[i].SameUsername(username) {
			u := users[i]
			return &u, nil
		}
	}
	return nil, nil
}

// Create registers a new profile. Names are unique ignoring case, but the
// spelling given here is the one stored.
func (d *Directory) Create(ctx context.Context, username string) (models.UserProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	users, err := d.List(ctx)
	if err != nil {
		return models.UserProfile{}, err
	}
	for _, u := range users {
		if u.SameUsername(username) {
			return models.UserProfile{}, ErrUsernameTaken
		}
	}

	user := models.UserProfile{
		ID:         d.newID(),
		Username:   username,
		JoinedDate: d.now().UTC().Format(time.RFC3339),
	}
	users = append(users, user)
	if err := storage.SaveList(ctx, d.store, constants.UsersKey, users); err != nil {
		return models.UserProfile{}, fmt.Errorf("failed to save user: %w", err)
	}

	logger.Info("User created", "id", user.ID, "username", user.Username)
	return user, nil
}

// Login trims the name and looks it up.
func (d *Directory) Login(ctx context.Context, username string) (models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.UserProfile{}, ErrEmptyUsername
	}

	user, err := d.FindByUsername(ctx, username)
	if err != nil {
		return models.UserProfile{}, err
	}
	if user == nil {
		return models.UserProfile{}, ErrUserNotFound
	}
	return *user, nil
}

func (d *Directory) Signup(ctx context.Context, username string) (models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return models.UserProfile{}, ErrEmptyUsername
	}
	return d.Create(ctx, username)
}
