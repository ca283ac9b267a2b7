package coaching

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/julianstephens/confi/internal/challenges"
	"github.com/julianstephens/confi/internal/cli"
	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/storage"
)

// planCoach answers GeneratePlan with a fixed plan and everything else offline.
type planCoach struct {
	coach.Offline
	plan models.Plan
}

func (c planCoach) GeneratePlan(context.Context, string) coach.Result[models.Plan] {
	return coach.Ok(c.plan)
}

func setupTestContext(t *testing.T, gateway coach.Gateway) (*cli.Context, *bytes.Buffer) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "confi.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	if gateway == nil {
		gateway = coach.Offline{}
	}
	ctx := cli.NewContext(store, gateway)
	out := &bytes.Buffer{}
	ctx.Out = out
	ctx.Confirm = func(string, string) (bool, error) { return true, nil }

	if _, err := ctx.Users.Signup(context.Background(), "ana"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}
	ctx.Username = "ana"
	return ctx, out
}

func listChallenges(t *testing.T, ctx *cli.Context) []models.Challenge {
	t.Helper()
	user, err := ctx.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("CurrentUser failed: %v", err)
	}
	list, err := ctx.Challenges.List(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	return list
}

func TestChallengeNewSavesPlan(t *testing.T) {
	ctx, out := setupTestContext(t, planCoach{plan: models.Plan{
		Title:       "Morning Momentum",
		Description: "Own your mornings.",
		SubTasks:    []string{"Wake at 6", "Stretch", "Plan the day", "No phone", "Review"},
	}})

	if err := (&ChallengeNewCmd{Goal: "better mornings", Yes: true}).Run(ctx); err != nil {
		t.Fatalf("challenge new failed: %v", err)
	}
	if !strings.Contains(out.String(), "Morning Momentum") {
		t.Errorf("expected plan preview, got %q", out.String())
	}

	list := listChallenges(t, ctx)
	if len(list) != 1 {
		t.Fatalf("expected 1 challenge, got %d", len(list))
	}
	if list[0].Status != models.ChallengeActive || len(list[0].SubTasks) != 5 {
		t.Errorf("unexpected challenge %+v", list[0])
	}
}

func TestChallengeNewDeclined(t *testing.T) {
	ctx, out := setupTestContext(t, planCoach{plan: models.Plan{Title: "Plan", SubTasks: []string{"a"}}})
	ctx.Confirm = func(string, string) (bool, error) { return false, nil }

	if err := (&ChallengeNewCmd{Goal: "anything"}).Run(ctx); err != nil {
		t.Fatalf("challenge new failed: %v", err)
	}
	if !strings.Contains(out.String(), "Discarded.") {
		t.Errorf("unexpected output %q", out.String())
	}
	if len(listChallenges(t, ctx)) != 0 {
		t.Error("expected nothing saved")
	}
}

func TestChallengeNewOffline(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)

	err := (&ChallengeNewCmd{Goal: "run", Yes: true}).Run(ctx)
	if !errors.Is(err, challenges.ErrPlanUnavailable) {
		t.Errorf("expected ErrPlanUnavailable, got %v", err)
	}
}

func TestChallengeRequiresUser(t *testing.T) {
	ctx, _ := setupTestContext(t, nil)
	ctx.Username = ""

	if err := (&ChallengeListCmd{}).Run(ctx); !errors.Is(err, cli.ErrNoUser) {
		t.Errorf("expected ErrNoUser, got %v", err)
	}
}

func TestChallengeAddToggleDelete(t *testing.T) {
	ctx, out := setupTestContext(t, nil)

	add := &ChallengeAddCmd{Title: "Read more", Description: "One chapter a day", Task: []string{"Pick a book", "Read ch. 1"}}
	if err := add.Run(ctx); err != nil {
		t.Fatalf("challenge add failed: %v", err)
	}

	out.Reset()
	if err := (&ChallengeListCmd{}).Run(ctx); err != nil {
		t.Fatalf("challenge list failed: %v", err)
	}
	if !strings.Contains(out.String(), "1. Read more [Active] 0/2") {
		t.Errorf("unexpected list output:\n%s", out.String())
	}

	out.Reset()
	if err := (&ChallengeToggleCmd{Challenge: "1", SubTask: "1"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if err := (&ChallengeToggleCmd{Challenge: "1", SubTask: "2"}).Run(ctx); err != nil {
		t.Fatalf("toggle failed: %v", err)
	}
	if !strings.Contains(out.String(), "completed!") {
		t.Errorf("expected completion message, got %q", out.String())
	}
	if list := listChallenges(t, ctx); list[0].Status != models.ChallengeCompleted {
		t.Errorf("expected completed, got %s", list[0].Status)
	}

	if err := (&ChallengeToggleCmd{Challenge: "1", SubTask: "7"}).Run(ctx); !errors.Is(err, challenges.ErrSubTaskNotFound) {
		t.Errorf("expected ErrSubTaskNotFound, got %v", err)
	}
	if err := (&ChallengeToggleCmd{Challenge: "9", SubTask: "1"}).Run(ctx); err == nil {
		t.Error("expected unknown challenge to fail")
	}

	if err := (&ChallengeDeleteCmd{Challenge: "1"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if len(listChallenges(t, ctx)) != 0 {
		t.Error("expected challenge deleted")
	}
}

func TestChallengeDeleteCancelled(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	if err := (&ChallengeAddCmd{Title: "Keep me"}).Run(ctx); err != nil {
		t.Fatalf("challenge add failed: %v", err)
	}
	ctx.Confirm = func(string, string) (bool, error) { return false, nil }

	if err := (&ChallengeDeleteCmd{Challenge: "1"}).Run(ctx); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if !strings.Contains(out.String(), "Cancelled.") {
		t.Errorf("unexpected output %q", out.String())
	}
	if len(listChallenges(t, ctx)) != 1 {
		t.Error("expected challenge kept")
	}
}

func TestProgressCmd(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	if err := (&ChallengeAddCmd{Title: "A", Task: []string{"x"}}).Run(ctx); err != nil {
		t.Fatalf("challenge add failed: %v", err)
	}

	out.Reset()
	if err := (&ProgressCmd{}).Run(ctx); err != nil {
		t.Fatalf("progress failed: %v", err)
	}
	got := out.String()
	for _, want := range []string{"Progress for ana", "Active", "Pending", "Journal entries: 0"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in output:\n%s", want, got)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	got := RenderSummary(models.ChallengeSummary{Active: 2, Completed: 1, Pending: 2})
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 rows, got %d:\n%s", len(lines), got)
	}
	if !strings.HasSuffix(lines[0], " 2") || !strings.HasSuffix(lines[1], " 1") {
		t.Errorf("unexpected rows:\n%s", got)
	}
	if strings.Count(lines[0], "█") != 2 {
		t.Errorf("expected two blocks for active, got %q", lines[0])
	}
}

func TestChatSingleMessage(t *testing.T) {
	ctx, out := setupTestContext(t, nil)

	if err := (&ChatCmd{Message: "hello"}).Run(ctx); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	got := out.String()
	if !strings.Contains(got, coach.Greeting("ana")) {
		t.Errorf("expected greeting, got %q", got)
	}
	if !strings.Contains(got, coach.FallbackChatError) {
		t.Errorf("expected offline reply, got %q", got)
	}
	if !strings.Contains(got, "offline") {
		t.Errorf("expected offline hint, got %q", got)
	}
}

func TestChatInteractive(t *testing.T) {
	ctx, out := setupTestContext(t, nil)
	ctx.In = strings.NewReader("first\n\nsecond\nexit\nnever sent\n")

	if err := (&ChatCmd{}).Run(ctx); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if n := strings.Count(out.String(), coach.FallbackChatError); n != 2 {
		t.Errorf("expected 2 replies, got %d:\n%s", n, out.String())
	}
}

func TestInsightsCmd(t *testing.T) {
	ctx, out := setupTestContext(t, nil)

	if err := (&InsightsCmd{}).Run(ctx); err != nil {
		t.Fatalf("insights failed: %v", err)
	}
	for _, in := range coach.FallbackInsights() {
		if !strings.Contains(out.String(), in) {
			t.Errorf("expected %q in output", in)
		}
	}
}
