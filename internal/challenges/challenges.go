package challenges

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/confi/internal/coach"
	"github.com/julianstephens/confi/internal/constants"
	"github.com/julianstephens/confi/internal/logger"
	"github.com/julianstephens/confi/internal/models"
	"github.com/julianstephens/confi/internal/storage"
)

var (
	ErrPlanUnavailable = errors.New("AI is taking a break. Try again.")
	ErrEmptyGoal       = errors.New("goal cannot be empty")
	ErrSubTaskNotFound = errors.New("sub-task not found")
)

// Planner drafts a plan for a goal.
type Planner interface {
	GeneratePlan(ctx context.Context, goal string) coach.Result[models.Plan]
}

type Service struct {
	coll    *storage.Collection[models.Challenge]
	planner Planner
	now     func() time.Time
	newID   func() string
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(store storage.Provider, planner Planner, opts ...Option) *Service {
	s := &Service{
		coll:    storage.NewCollection[models.Challenge](store, constants.KindChallenges),
		planner: planner,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) List(ctx context.Context, userID string) ([]models.Challenge, error) {
	return s.coll.Load(ctx, userID)
}

// Get returns the challenge with the given id, or nil.
func (s *Service) Get(ctx context.Context, userID, challengeID string) (*models.Challenge, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if list[i].ID == challengeID {
			c := list[i]
			return &c, nil
		}
	}
	return nil, nil
}

// Build turns a plan into a new Active challenge spanning the next two weeks.
func (s *Service) Build(plan models.Plan) models.Challenge {
	start := s.now().UTC()
	subTasks := make([]models.SubTask, 0, len(plan.SubTasks))
	for _, title := range plan.SubTasks {
		subTasks = append(subTasks, models.SubTask{ID: s.newID(), Title: title})
	}
	return models.Challenge{
		ID:          s.newID(),
		Title:       plan.Title,
		Description: plan.Description,
		Status:      models.ChallengeActive,
		StartDate:   start.Format(time.RFC3339),
		EndDate:     start.Add(constants.ChallengeWindow).Format(time.RFC3339),
		SubTasks:    subTasks,
	}
}

func (s *Service) Create(ctx context.Context, userID string, plan models.Plan) (models.Challenge, error) {
	c := s.Build(plan)

	list, err := s.List(ctx, userID)
	if err != nil {
		return models.Challenge{}, err
	}
	list = append(list, c)
	if err := s.coll.Save(ctx, userID, list); err != nil {
		return models.Challenge{}, fmt.Errorf("failed to save challenge: %w", err)
	}

	logger.Debug("Challenge created", "user", userID, "challenge", c.ID, "subtasks", len(c.SubTasks))
	return c, nil
}

// ToggleSubTask flips one sub-task and persists the challenge. found is false,
// with nothing written, when either id is unknown.
func (s *Service) ToggleSubTask(ctx context.Context, userID, challengeID, subTaskID string) (models.Challenge, bool, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return models.Challenge{}, false, err
	}

	for i, c := range list {
		if c.ID != challengeID {
			continue
		}
		updated, ok := c.WithToggled(subTaskID)
		if !ok {
			return c, false, nil
		}
		list[i] = updated
		if err := s.coll.Save(ctx, userID, list); err != nil {
			return models.Challenge{}, false, fmt.Errorf("failed to save challenge: %w", err)
		}
		return updated, true, nil
	}
	return models.Challenge{}, false, nil
}

// Delete removes a challenge. Unknown ids are ignored.
func (s *Service) Delete(ctx context.Context, userID, challengeID string) error {
	list, err := s.List(ctx, userID)
	if err != nil {
		return err
	}

	kept := make([]models.Challenge, 0, len(list))
	for _, c := range list {
		if c.ID != challengeID {
			kept = append(kept, c)
		}
	}
	if err := s.coll.Save(ctx, userID, kept); err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	return nil
}

// Draft asks the coach for a plan. Any coach fallback is reported as
// ErrPlanUnavailable; the cause is only logged.
func (s *Service) Draft(ctx context.Context, goal string) (models.Plan, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return models.Plan{}, ErrEmptyGoal
	}

	res := s.planner.GeneratePlan(ctx, goal)
	if res.IsFallback() {
		logger.Warn("Plan generation failed", "error", res.Cause)
		return models.Plan{}, ErrPlanUnavailable
	}
	return res.Value, nil
}

// Summary counts challenges by status for the progress chart. Pending is
// padding so the chart has something to show before five challenges exist.
func (s *Service) Summary(ctx context.Context, userID string) (models.ChallengeSummary, error) {
	list, err := s.List(ctx, userID)
	if err != nil {
		return models.ChallengeSummary{}, err
	}
	return Summarize(list), nil
}

func Summarize(list []models.Challenge) models.ChallengeSummary {
	var sum models.ChallengeSummary
	for _, c := range list {
		switch c.Status {
		case models.ChallengeActive:
			sum.Active++
		case models.ChallengeCompleted:
			sum.Completed++
		}
	}
	sum.Pending = max(0, constants.ProgressChartSlots-(sum.Active+sum.Completed))
	return sum
}

// ResolveSubTask accepts either a sub-task id or a 1-based position and
// returns the sub-task id.
func ResolveSubTask(c models.Challenge, ref string) (string, error) {
	if c.SubTaskIndex(ref) >= 0 {
		return ref, nil
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(c.SubTasks) {
		return c.SubTasks[n-1].ID, nil
	}
	return "", fmt.Errorf("%w: %q", ErrSubTaskNotFound, ref)
}

// ResolveChallenge finds a challenge by id, id prefix or 1-based position.
func ResolveChallenge(list []models.Challenge, ref string) (*models.Challenge, error) {
	if ref == "" {
		return nil, errors.New("challenge reference cannot be empty")
	}
	for i := range list {
		if list[i].ID == ref {
			return &list[i], nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(list) {
		return &list[n-1], nil
	}

	var match *models.Challenge
	for i := range list {
		if strings.HasPrefix(list[i].ID, ref) {
			if match != nil {
				return nil, fmt.Errorf("challenge reference %q is ambiguous", ref)
			}
			match = &list[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("challenge %q not found", ref)
	}
	return match, nil
}
