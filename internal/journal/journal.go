package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/constants"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/storage"
)

var ErrEmptyEntry = errors.New("journal entry cannot be empty")

// Prompter supplies reflection questions.
type Prompter interface {
	ReflectionPrompt(ctx context.Context) coach.Result[string]
}

type Journal struct {
	coll     *storage.Collection[models.JournalEntry]
	prompter Prompter
	now      func() time.Time
	newID    func() string
}

func New(store storage.Provider, prompter Prompter) *Journal {
	return &Journal{
		coll:     storage.NewCollection[models.JournalEntry](store, constants.KindJournalEntries),
		prompter: prompter,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// List returns entries newest first.
func (j *Journal) List(ctx context.Context, userID string) ([]models.JournalEntry, error) {
	return j.coll.Load(ctx, userID)
}

// Add stores a new entry at the front of the journal. An empty prompt is
// recorded as the generic "Self Reflection" heading.
func (j *Journal) Add(ctx context.Context, userID, prompt, content string) (models.JournalEntry, error) {
	if strings.TrimSpace(content) == "" {
		return models.JournalEntry{}, ErrEmptyEntry
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = constants.DefaultJournalPrompt
	}

	entry := models.JournalEntry{
		ID:      j.newID(),
		UserID:  userID,
		Date:    j.now().UTC().Format(time.RFC3339),
		Prompt:  prompt,
		Content: content,
	}

	entries, err := j.List(ctx, userID)
	if err != nil {
		return models.JournalEntry{}, err
	}
	entries = append([]models.JournalEntry{entry}, entries...)
	if err := j.coll.Save(ctx, userID, entries); err != nil {
		return models.JournalEntry{}, fmt.Errorf("failed to save journal entry: %w", err)
	}
	return entry, nil
}

func (j *Journal) Prompt(ctx context.Context) coach.Result[string] {
	return j.prompter.ReflectionPrompt(ctx)
}
