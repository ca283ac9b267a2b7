package learning

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/models"
)

var ErrUnknownTopic = errors.New("unknown learning topic")

var catalog = []models.LearningTopic{
	{ID: "1", Title: "Stoicism for Modern Work", Category: "Mindset", Description: "Control what you can, let go of what you can't."},
	{ID: "2", Title: "The Pomodoro Technique", Category: "Productivity", Description: "Short focused sprints with deliberate breaks."},
	{ID: "3", Title: "Emotional Intelligence 101", Category: "Soft Skills", Description: "Notice, name and steer your emotions."},
	{ID: "4", Title: "Deep Work by Cal Newport", Category: "Focus", Description: "Protect long stretches of distraction-free work."},
}

type Summarizer interface {
	TopicSummary(ctx context.Context, topic string) coach.Result[string]
}

type Center struct {
	summarizer Summarizer
}

func NewCenter(summarizer Summarizer) *Center {
	return &Center{summarizer: summarizer}
}

// Topics returns a copy of the catalog.
func Topics() []models.LearningTopic {
	out := make([]models.LearningTopic, len(catalog))
	copy(out, catalog)
	return out
}

// Find looks a topic up by id, or by title ignoring case.
func Find(ref string) (models.LearningTopic, error) {
	ref = strings.TrimSpace(ref)
	for _, t := range catalog {
		if t.ID == ref || strings.EqualFold(t.Title, ref) {
			return t, nil
		}
	}
	return models.LearningTopic{}, fmt.Errorf("%w: %q", ErrUnknownTopic, ref)
}

func (c *Center) Topics() []models.LearningTopic {
	return Topics()
}

// Summary asks the coach to summarize the topic.
func (c *Center) Summary(ctx context.Context, ref string) (models.LearningTopic, coach.Result[string], error) {
	topic, err := Find(ref)
	if err != nil {
		return models.LearningTopic{}, coach.Result[string]{}, err
	}
	return topic, c.summarizer.TopicSummary(ctx, topic.Title), nil
}
