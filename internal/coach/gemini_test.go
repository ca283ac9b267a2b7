package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/julianstephens/confi/internal/models"
)

type fakeCall struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

// fakeGenerator replays canned replies in order and records each request.
type fakeGenerator struct {
	replies []string
	err     error
	calls   []fakeCall
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls = append(f.calls, fakeCall{model: model, contents: contents, config: config})
	if f.err != nil {
		return nil, f.err
	}
	reply := ""
	if len(f.replies) > 0 {
		reply, f.replies = f.replies[0], f.replies[1:]
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(reply, genai.RoleModel)}},
	}, nil
}

func contentText(c *genai.Content) string {
	var b strings.Builder
	for _, p := range c.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

func TestNewGeminiRequiresKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), GeminiConfig{APIKey: "  "}); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestDefaultModel(t *testing.T) {
	g := newGemini(&fakeGenerator{}, "")
	if g.Model() != "gemini-3-flash-preview" {
		t.Errorf("unexpected default model %q", g.Model())
	}
}

func TestGeneratePlan(t *testing.T) {
	gen := &fakeGenerator{replies: []string{`{"title":"Speak Up","description":"Find your voice.","subTasks":["a","b","c","d","e"]}`}}
	g := newGemini(gen, "test-model")

	res := g.GeneratePlan(context.Background(), "be more confident in meetings")
	if res.IsFallback() {
		t.Fatalf("unexpected fallback: %v", res.Cause)
	}
	want := models.Plan{Title: "Speak Up", Description: "Find your voice.", SubTasks: []string{"a", "b", "c", "d", "e"}}
	if diff := cmp.Diff(want, res.Value); diff != "" {
		t.Errorf("plan mismatch (-want +got):\n%s", diff)
	}

	call := gen.calls[0]
	if call.model != "test-model" {
		t.Errorf("expected configured model, got %q", call.model)
	}
	if call.config == nil || call.config.ResponseMIMEType != "application/json" || call.config.ResponseSchema == nil {
		t.Fatal("expected a JSON schema constrained request")
	}
	if diff := cmp.Diff([]string{"title", "description", "subTasks"}, call.config.ResponseSchema.Required); diff != "" {
		t.Errorf("required fields mismatch (-want +got):\n%s", diff)
	}
	if prompt := contentText(call.contents[0]); !strings.Contains(prompt, `"be more confident in meetings"`) || !strings.Contains(prompt, "exactly 5") {
		t.Errorf("unexpected plan prompt %q", prompt)
	}
}

func TestGeneratePlanFallbacks(t *testing.T) {
	tests := []struct {
		name    string
		gen     *fakeGenerator
		wantErr error
	}{
		{"transport error", &fakeGenerator{err: errors.New("dial tcp: timeout")}, nil},
		{"empty reply", &fakeGenerator{replies: []string{""}}, ErrEmptyResponse},
		{"malformed reply", &fakeGenerator{replies: []string{"not json"}}, ErrMalformedReply},
		{"missing title", &fakeGenerator{replies: []string{`{"subTasks":["a"]}`}}, ErrMalformedReply},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newGemini(tt.gen, "").GeneratePlan(context.Background(), "goal")
			if !res.IsFallback() {
				t.Fatal("expected fallback")
			}
			if tt.wantErr != nil && !errors.Is(res.Cause, tt.wantErr) {
				t.Errorf("expected cause %v, got %v", tt.wantErr, res.Cause)
			}
		})
	}
}

func TestTextFallbacks(t *testing.T) {
	ctx := context.Background()
	failing := newGemini(&fakeGenerator{err: errors.New("offline")}, "")
	empty := newGemini(&fakeGenerator{replies: []string{"", "", ""}}, "")

	tests := []struct {
		name string
		got  Result[string]
		want string
	}{
		{"reflection error", failing.ReflectionPrompt(ctx), FallbackReflectionError},
		{"topic error", failing.TopicSummary(ctx, "Deep Work"), FallbackTopicError},
		{"affirmation error", failing.Affirmation(ctx), FallbackAffirmationError},
		{"reflection empty", empty.ReflectionPrompt(ctx), FallbackReflectionEmpty},
		{"topic empty", empty.TopicSummary(ctx, "Deep Work"), FallbackTopicEmpty},
		{"affirmation empty", empty.Affirmation(ctx), FallbackAffirmationEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.got.IsFallback() {
				t.Fatal("expected fallback path")
			}
			if tt.got.Value != tt.want {
				t.Errorf("got %q, want %q", tt.got.Value, tt.want)
			}
		})
	}
}

func TestAffirmationTrimmed(t *testing.T) {
	g := newGemini(&fakeGenerator{replies: []string{"  I speak with clarity.\n"}}, "")
	res := g.Affirmation(context.Background())
	if res.IsFallback() || res.Value != "I speak with clarity." {
		t.Errorf("unexpected result %+v", res)
	}
}

func TestInsights(t *testing.T) {
	g := newGemini(&fakeGenerator{replies: []string{`["One.","Two.","Three."]`}}, "")
	res := g.Insights(context.Background())
	if res.IsFallback() {
		t.Fatalf("unexpected fallback: %v", res.Cause)
	}
	if diff := cmp.Diff([]string{"One.", "Two.", "Three."}, res.Value); diff != "" {
		t.Errorf("insights mismatch (-want +got):\n%s", diff)
	}

	for _, reply := range []string{"[]", "{oops"} {
		res := newGemini(&fakeGenerator{replies: []string{reply}}, "").Insights(context.Background())
		if !res.IsFallback() {
			t.Errorf("expected fallback for reply %q", reply)
		}
		if diff := cmp.Diff(FallbackInsights(), res.Value); diff != "" {
			t.Errorf("fallback insights mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestChatKeepsHistory(t *testing.T) {
	gen := &fakeGenerator{replies: []string{"What does confident look like to you?", "Nice. What's next?"}}
	g := newGemini(gen, "")
	session := g.NewChat("ana")

	if first := session.Transcript()[0]; first.Role != RoleModel || first.Text != Greeting("ana") {
		t.Fatalf("expected greeting first, got %+v", first)
	}

	ctx := context.Background()
	if res := g.Chat(ctx, session, "I want to be bolder"); res.IsFallback() {
		t.Fatalf("unexpected fallback: %v", res.Cause)
	}
	if res := g.Chat(ctx, session, "Speaking up"); res.Value != "Nice. What's next?" {
		t.Fatalf("unexpected reply %q", res.Value)
	}

	// Second request replays the first exchange plus the new message
	second := gen.calls[1]
	if len(second.contents) != 3 {
		t.Fatalf("expected 3 contents on second turn, got %d", len(second.contents))
	}
	if contentText(second.contents[1]) != "What does confident look like to you?" || second.contents[1].Role != string(genai.RoleModel) {
		t.Errorf("expected model turn replayed, got %+v", second.contents[1])
	}
	if second.config == nil || second.config.SystemInstruction == nil ||
		!strings.Contains(contentText(second.config.SystemInstruction), "You are 'Confi'") {
		t.Error("expected coach persona as system instruction")
	}

	if got := len(session.Transcript()); got != 5 {
		t.Errorf("expected greeting plus 4 messages, got %d", got)
	}
}

func TestChatFailureNotInHistory(t *testing.T) {
	g := newGemini(&fakeGenerator{err: errors.New("no network")}, "")
	session := g.NewChat("ana")

	res := g.Chat(context.Background(), session, "hello?")
	if !res.IsFallback() || res.Value != FallbackChatError {
		t.Fatalf("expected connection fallback, got %+v", res)
	}
	if len(session.History()) != 0 {
		t.Errorf("failed turn leaked into history: %+v", session.History())
	}
	transcript := session.Transcript()
	if transcript[len(transcript)-1].Text != FallbackChatError {
		t.Error("expected fallback shown in transcript")
	}
}

func TestChatEmptyReply(t *testing.T) {
	g := newGemini(&fakeGenerator{replies: []string{"   "}}, "")
	res := g.Chat(context.Background(), g.NewChat("ana"), "hi")
	if !res.IsFallback() || res.Value != FallbackChatEmpty {
		t.Errorf("expected empty-reply fallback, got %+v", res)
	}
}

func TestOffline(t *testing.T) {
	ctx := context.Background()
	var gw Gateway = Offline{}

	if res := gw.GeneratePlan(ctx, "goal"); !errors.Is(res.Cause, ErrNoAPIKey) {
		t.Errorf("expected ErrNoAPIKey, got %v", res.Cause)
	}
	if res := gw.Affirmation(ctx); res.Value != FallbackAffirmationError {
		t.Errorf("unexpected offline affirmation %q", res.Value)
	}
	session := gw.NewChat("ana")
	if res := gw.Chat(ctx, session, "hi"); !res.IsFallback() {
		t.Error("expected offline chat to fall back")
	}
	if len(session.Transcript()) != 3 {
		t.Errorf("expected greeting plus exchange in transcript, got %d", len(session.Transcript()))
	}
}

func TestFallbackWithoutCause(t *testing.T) {
	res := Fallback("x", nil)
	if !res.IsFallback() || !errors.Is(res.Cause, ErrEmptyResponse) {
		t.Errorf("expected default cause, got %v", res.Cause)
	}
	if Ok("y").IsFallback() {
		t.Error("Ok result reported as fallback")
	}
}
