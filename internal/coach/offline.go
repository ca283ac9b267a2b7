package coach

import (
	"context"

	"github.com/julianstephens/confi/internal/models"
)

// Offline answers every request with its fallback. It stands in for Gemini
// when no API key is configured.
type Offline struct{}

func (Offline) NewChat(username string) *ChatSession {
	return NewChatSession(username)
}

func (Offline) Chat(_ context.Context, session *ChatSession, message string) Result[string] {
	res := Fallback(FallbackChatError, ErrNoAPIKey)
	if session != nil {
		session.record(message, res)
	}
	return res
}

func (Offline) GeneratePlan(context.Context, string) Result[models.Plan] {
	return Fallback(models.Plan{}, ErrNoAPIKey)
}

func (Offline) ReflectionPrompt(context.Context) Result[string] {
	return Fallback(FallbackReflectionError, ErrNoAPIKey)
}

func (Offline) TopicSummary(context.Context, string) Result[string] {
	return Fallback(FallbackTopicError, ErrNoAPIKey)
}

func (Offline) Affirmation(context.Context) Result[string] {
	return Fallback(FallbackAffirmationError, ErrNoAPIKey)
}

func (Offline) Insights(context.Context) Result[[]string] {
	return Fallback(FallbackInsights(), ErrNoAPIKey)
}
