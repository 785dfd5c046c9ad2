package service

import (
	"context"
	"fmt"
	"time"

	"goaltracker/internal/cache"
	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/goals"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"
)

// GoalService loads and replaces a user's goal collection and derives the
// today and stats views from it.
type GoalService interface {
	Load(ctx context.Context, username string) ([]model.Goal, error)
	Replace(ctx context.Context, username string, list []model.Goal) error
	Today(ctx context.Context, username string, day time.Time) (goals.TodayView, error)
	Stats(ctx context.Context, username string, asOf time.Time) ([]goals.GoalStats, error)
}

type goalService struct {
	repo     repository.GoalRepository
	cache    *cache.Client
	cacheTTL time.Duration
	log      logging.Logger
}

// NewGoalService creates a goal service. cache may be nil.
func NewGoalService(repo repository.GoalRepository, c *cache.Client, cacheTTL time.Duration, log logging.Logger) GoalService {
	return &goalService{
		repo:     repo,
		cache:    c,
		cacheTTL: cacheTTL,
		log:      log,
	}
}

func generationKey(username string) string {
	return "goals-gen:" + username
}

// snapshotKey names the cached list for username at the current write
// generation. Replace bumps the generation after its write commits, so a
// snapshot taken from pre-commit rows is never read again.
func (s *goalService) snapshotKey(ctx context.Context, username string) (string, bool) {
	gen, ok := s.cache.Counter(ctx, generationKey(username))
	if !ok {
		return "", false
	}
	return fmt.Sprintf("goals:%s:%d", username, gen), true
}

// Load returns the stored goals of username in client order. An empty
// username or an unknown user yields an empty list.
func (s *goalService) Load(ctx context.Context, username string) ([]model.Goal, error) {
	if username == "" {
		return []model.Goal{}, nil
	}

	key, cacheable := s.snapshotKey(ctx, username)
	if cacheable {
		var cached []model.Goal
		if s.cache.GetJSON(ctx, key, &cached) {
			return cached, nil
		}
	}

	list, err := s.repo.ListByUser(ctx, username)
	if err != nil {
		s.log.Error(ctx, "load goals failed", "username", username, "error", err)
		return nil, fmt.Errorf("load goals: %w", err)
	}
	if list == nil {
		list = []model.Goal{}
	}

	if cacheable {
		s.cache.SetJSON(ctx, key, list, s.cacheTTL)
	}
	return list, nil
}

// Replace validates list and swaps it in for everything stored under username.
func (s *goalService) Replace(ctx context.Context, username string, list []model.Goal) error {
	if username == "" {
		return apperrors.Validation("username is required")
	}
	normalized, err := validateGoals(list)
	if err != nil {
		return err
	}

	key, cacheable := s.snapshotKey(ctx, username)
	err = s.repo.ReplaceForUser(ctx, username, normalized)
	// a failed DynamoDB replace may have written part of the set
	s.cache.Incr(ctx, generationKey(username))
	if cacheable {
		s.cache.Delete(ctx, key)
	}
	if err != nil {
		s.log.Error(ctx, "replace goals failed", "username", username, "count", len(normalized), "error", err)
		return fmt.Errorf("replace goals: %w", err)
	}

	s.log.Debug(ctx, "goals replaced", "username", username, "count", len(normalized))
	return nil
}

func (s *goalService) Today(ctx context.Context, username string, day time.Time) (goals.TodayView, error) {
	list, err := s.Load(ctx, username)
	if err != nil {
		return goals.TodayView{}, err
	}
	return goals.Today(list, day), nil
}

func (s *goalService) Stats(ctx context.Context, username string, asOf time.Time) ([]goals.GoalStats, error) {
	list, err := s.Load(ctx, username)
	if err != nil {
		return nil, err
	}
	return goals.Stats(list, asOf), nil
}

// validateGoals enforces the collection invariants and returns a copy with
// categories normalised.
func validateGoals(list []model.Goal) ([]model.Goal, error) {
	if len(list) > model.MaxGoalsPerUser {
		return nil, apperrors.Validation("at most %d goals per user, got %d", model.MaxGoalsPerUser, len(list))
	}

	seen := make(map[string]struct{}, len(list))
	out := make([]model.Goal, 0, len(list))
	for i, g := range list {
		if g.ID == "" {
			return nil, apperrors.Validation("goal %d has no id", i)
		}
		if _, dup := seen[g.ID]; dup {
			return nil, apperrors.Validation("duplicate goal id %q", g.ID)
		}
		seen[g.ID] = struct{}{}

		c, ok := model.ParseCategory(string(g.Category))
		if !ok {
			return nil, apperrors.Validation("goal %q has unknown category %q", g.ID, g.Category)
		}
		g.Category = c

		for day := range g.History {
			if !goals.ValidDayKey(day) {
				return nil, apperrors.Validation("goal %q has malformed history day %q", g.ID, day)
			}
		}
		out = append(out, g)
	}
	return out, nil
}
