package coach

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"google.golang.org/genai"

	"github.com/julianstephens/confi/internal/constants"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/models"
)

const persona = "You are 'Confi', a personal growth AI coach. Your tone is supportive, sharp, and encouraging. " +
	"You help the user with productivity, confidence, mental habits, and goal setting. " +
	"Keep responses concise (under 60 words) and conversational. " +
	"Ask follow-up questions to dig deeper into the user's progress."

const (
	insightsPrompt    = `Generate 3 short, punchy, personalized insights for a user of a self-improvement app called "Confi". Assume the user is a young professional. Return ONLY a JSON array of strings.`
	reflectionPrompt  = "Generate a deep, single-sentence introspective question for a young professional about their growth."
	affirmationPrompt = "Generate a powerful affirmation for confidence. Max 12 words."
)

func planPrompt(goal string) string {
	return fmt.Sprintf("The user wants to: %q. Create a structured plan with a Title, a motivational description, and exactly %d actionable sub-tasks.", goal, constants.PlanSubTaskCount)
}

func topicPrompt(topic string) string {
	return fmt.Sprintf("Provide a high-level summary of %q. Limit to 100 words.", topic)
}

// generator is the slice of the genai client the gateway uses.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is the Gateway backed by the Gemini API.
type Gemini struct {
	gen   generator
	model string
	log   *log.Logger
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return newGemini(client.Models, cfg.Model), nil
}

func newGemini(gen generator, model string) *Gemini {
	if model == "" {
		model = constants.DefaultModel
	}
	return &Gemini{
		gen:   gen,
		model: model,
		log:   logger.For("coach"),
	}
}

func (g *Gemini) Model() string {
	return g.model
}

// generate sends contents and returns the trimmed response text.
func (g *Gemini) generate(ctx context.Context, contents []*genai.Content, cfg *genai.GenerateContentConfig) (string, error) {
	resp, err := g.gen.GenerateContent(ctx, g.model, contents, cfg)
	if err != nil {
		return "", err
	}
	if resp == nil {
		return "", ErrEmptyResponse
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) ask(ctx context.Context, prompt string, cfg *genai.GenerateContentConfig) (string, error) {
	return g.generate(ctx, []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}, cfg)
}

// fallback logs why a canned answer is being used.
func fallback[T any](g *Gemini, op string, v T, err error) Result[T] {
	g.log.Warn("Coach fallback", "op", op, "model", g.model, "error", err)
	return Fallback(v, err)
}

func (g *Gemini) NewChat(username string) *ChatSession {
	return NewChatSession(username)
}

func (g *Gemini) Chat(ctx context.Context, session *ChatSession, message string) Result[string] {
	if session == nil {
		session = NewChatSession("")
	}

	history := session.History()
	contents := make([]*genai.Content, 0, len(history)+1)
	for _, m := range history {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Text, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	var res Result[string]
	text, err := g.generate(ctx, contents, &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(persona, genai.RoleUser),
	})
	switch {
	case errors.Is(err, ErrEmptyResponse):
		res = fallback(g, "chat", FallbackChatEmpty, err)
	case err != nil:
		res = fallback(g, "chat", FallbackChatError, err)
	default:
		res = Ok(text)
	}

	session.record(message, res)
	return res
}

func planSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":       {Type: genai.TypeString},
			"description": {Type: genai.TypeString},
			"subTasks": {
				Type:  genai.TypeArray,
				Items: &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"title", "description", "subTasks"},
	}
}

func (g *Gemini) GeneratePlan(ctx context.Context, goal string) Result[models.Plan] {
	text, err := g.ask(ctx, planPrompt(goal), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   planSchema(),
	})
	if err != nil {
		return fallback(g, "plan", models.Plan{}, err)
	}

	var plan models.Plan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return fallback(g, "plan", models.Plan{}, fmt.Errorf("%w: %v", ErrMalformedReply, err))
	}
	if strings.TrimSpace(plan.Title) == "" {
		return fallback(g, "plan", models.Plan{}, fmt.Errorf("%w: plan has no title", ErrMalformedReply))
	}
	return Ok(plan)
}

func (g *Gemini) ReflectionPrompt(ctx context.Context) Result[string] {
	text, err := g.ask(ctx, reflectionPrompt, nil)
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return fallback(g, "reflection", FallbackReflectionEmpty, err)
	case err != nil:
		return fallback(g, "reflection", FallbackReflectionError, err)
	}
	return Ok(text)
}

func (g *Gemini) TopicSummary(ctx context.Context, topic string) Result[string] {
	text, err := g.ask(ctx, topicPrompt(topic), nil)
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return fallback(g, "topic", FallbackTopicEmpty, err)
	case err != nil:
		return fallback(g, "topic", FallbackTopicError, err)
	}
	return Ok(text)
}

func (g *Gemini) Affirmation(ctx context.Context) Result[string] {
	text, err := g.ask(ctx, affirmationPrompt, nil)
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return fallback(g, "affirmation", FallbackAffirmationEmpty, err)
	case err != nil:
		return fallback(g, "affirmation", FallbackAffirmationError, err)
	}
	return Ok(text)
}

func (g *Gemini) Insights(ctx context.Context) Result[[]string] {
	text, err := g.ask(ctx, insightsPrompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	})
	if err != nil {
		return fallback(g, "insights", FallbackInsights(), err)
	}

	var insights []string
	if err := json.Unmarshal([]byte(text), &insights); err != nil {
		return fallback(g, "insights", FallbackInsights(), fmt.Errorf("%w: %v", ErrMalformedReply, err))
	}
	if len(insights) == 0 {
		return fallback(g, "insights", FallbackInsights(), ErrEmptyResponse)
	}
	return Ok(insights)
}
