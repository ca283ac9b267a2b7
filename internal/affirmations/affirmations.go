package affirmations

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

// DefaultFeatured is shown when a user has no affirmations yet.
const DefaultFeatured = "I am building the future I deserve."

var ErrEmptyAffirmation = errors.New("affirmation cannot be empty")

type Generator interface {
	Affirmation(ctx context.Context) coach.Result[string]
}

type Service struct {
	coll  *storage.Collection[models.Affirmation]
	gen   Generator
	now   func() time.Time
	newID func() string
}

func NewService(store storage.Provider, gen Generator) *Service {
	return &Service{
		coll:  storage.NewCollection[models.Affirmation](store, constants.KindAffirmations),
		gen:   gen,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// List returns the stored affirmations, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]models.Affirmation, error) {
	return s.coll.Load(ctx, userID)
}

// Save puts text at the front of the history and keeps only the newest
// MaxAffirmations entries.
func (s *Service) Save(ctx context.Context, userID, text string) (models.Affirmation, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.Affirmation{}, ErrEmptyAffirmation
	}

	a := models.Affirmation{
		ID:     s.newID(),
		UserID: userID,
		Text:   text,
		Date:   s.now().UTC().Format(time.RFC3339),
	}

	list, err := s.List(ctx, userID)
	if err != nil {
		return models.Affirmation{}, err
	}
	list = append([]models.Affirmation{a}, list...)
	if len(list) > constants.MaxAffirmations {
		list = list[:constants.MaxAffirmations]
	}
	if err := s.coll.Save(ctx, userID, list); err != nil {
		return models.Affirmation{}, fmt.Errorf("failed to save affirmation: %w", err)
	}
	return a, nil
}

// Generate asks the coach for an affirmation and saves whatever comes back,
// fallback text included. The Result reports which it was.
func (s *Service) Generate(ctx context.Context, userID string) (models.Affirmation, coach.Result[string], error) {
	res := s.gen.Affirmation(ctx)
	a, err := s.Save(ctx, userID, res.Value)
	return a, res, err
}

// Featured returns the text to headline: the newest affirmation or the default.
func Featured(list []models.Affirmation) string {
	if len(list) == 0 {
		return DefaultFeatured
	}
	return list[0].Text
}
