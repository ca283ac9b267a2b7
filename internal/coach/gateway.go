package coach

import (
	"context"
	"errors"

	"github.com/julianstephens/confi/internal/models"
)

var (
	ErrNoAPIKey       = errors.New("no Gemini API key configured")
	ErrEmptyResponse  = errors.New("model returned an empty response")
	ErrMalformedReply = errors.New("model returned malformed JSON")
)

// Canned answers used when the model cannot be reached or says nothing useful.
const (
	FallbackChatError        = "I'm having trouble connecting right now. Please check your connection."
	FallbackChatEmpty        = "I'm here, but I couldn't think of a response. Try again?"
	FallbackReflectionError  = "What was your biggest win today?"
	FallbackReflectionEmpty  = "What is one thing you learned about yourself today?"
	FallbackTopicError       = "Could not generate summary."
	FallbackTopicEmpty       = "Summary unavailable."
	FallbackAffirmationError = "I am becoming the best version of myself."
	FallbackAffirmationEmpty = "I am capable of achieving greatness."
)

// FallbackInsights is returned by Insights on any failure.
func FallbackInsights() []string {
	return []string{"Focus on consistency.", "Celebrate small wins.", "Stay curious."}
}

// Gateway is the coach's only way to talk to a language model. Implementations
// never return a bare error: failures come back as a fallback Result.
type Gateway interface {
	NewChat(username string) *ChatSession
	Chat(ctx context.Context, session *ChatSession, message string) Result[string]
	GeneratePlan(ctx context.Context, goal string) Result[models.Plan]
	ReflectionPrompt(ctx context.Context) Result[string]
	TopicSummary(ctx context.Context, topic string) Result[string]
	Affirmation(ctx context.Context) Result[string]
	Insights(ctx context.Context) Result[[]string]
}
