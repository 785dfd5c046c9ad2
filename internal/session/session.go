// Package session holds one user's goal list on the client side. Every
// mutation is applied locally first and pushed to the server as a whole
// after a short quiet period.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"goaltracker/internal/ai"
	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/goals"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
)

// DefaultDebounce is the quiet time before a sync is sent.
const DefaultDebounce = time.Second

// ErrAnalysisInFlight is returned by Create while the previous goal is still
// being analysed.
var ErrAnalysisInFlight = errors.New("session: goal analysis already in flight")

// API is the server as the session sees it.
type API interface {
	LoadGoals(ctx context.Context, username string) ([]model.Goal, error)
	SaveGoals(ctx context.Context, username string, list []model.Goal) error
	AnalyzeGoal(ctx context.Context, text string) (model.Analysis, error)
}

// Options tunes a Session. Zero values pick the defaults.
type Options struct {
	Debounce time.Duration
	Now      func() time.Time
	Logger   logging.Logger
}

// Session is the authoritative goal list of one logged-in user.
type Session struct {
	api      API
	username string
	debounce time.Duration
	now      func() time.Time
	log      logging.Logger

	mu        sync.Mutex
	goals     []model.Goal
	analyzing bool
	timer     *time.Timer

	syncMu   sync.Mutex
	inflight sync.WaitGroup
}

// New creates an empty session for username.
func New(api API, username string, opts Options) *Session {
	s := &Session{
		api:      api,
		username: username,
		debounce: opts.Debounce,
		now:      opts.Now,
		log:      opts.Logger,
		goals:    []model.Goal{},
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = logging.Nop()
	}
	return s
}

// Username returns the owner of the session.
func (s *Session) Username() string { return s.username }

// Load replaces the local list with the server's copy.
func (s *Session) Load(ctx context.Context) error {
	list, err := s.api.LoadGoals(ctx, s.username)
	if err != nil {
		return err
	}
	if list == nil {
		list = []model.Goal{}
	}

	s.mu.Lock()
	s.goals = list
	s.mu.Unlock()
	return nil
}

// Goals returns a copy of the current list.
func (s *Session) Goals() []model.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneAll(s.goals)
}

// Filter returns the goals of category c; an empty category returns all.
func (s *Session) Filter(c model.Category) []model.Goal {
	return goals.FilterByCategory(s.Goals(), c)
}

// Today aggregates what is pending today.
func (s *Session) Today() goals.TodayView {
	return goals.Today(s.Goals(), s.now())
}

// Stats computes the habit stats as of now.
func (s *Session) Stats() []goals.GoalStats {
	return goals.Stats(s.Goals(), s.now())
}

// Analyzing reports whether a goal analysis is outstanding.
func (s *Session) Analyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzing
}

// Create appends a PENDING goal and starts its analysis in the background.
// At the cap nothing happens and the second result is false.
func (s *Session) Create(text string) (model.Goal, bool, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Goal{}, false, apperrors.Validation("goal text is required")
	}

	s.mu.Lock()
	if s.analyzing {
		s.mu.Unlock()
		return model.Goal{}, false, ErrAnalysisInFlight
	}
	g := goals.NewGoal(text, s.now(), s.goals)
	list, ok := goals.AppendCapped(s.goals, g)
	if !ok {
		s.mu.Unlock()
		return model.Goal{}, false, nil
	}
	s.goals = list
	s.analyzing = true
	s.scheduleLocked()
	s.inflight.Add(1)
	s.mu.Unlock()

	go s.analyze(g.ID, text)
	return g.Clone(), true, nil
}

func (s *Session) analyze(id, text string) {
	defer s.inflight.Done()

	ctx := context.Background()
	a, err := s.api.AnalyzeGoal(ctx, text)
	if err != nil {
		s.log.Warn(ctx, "goal analysis failed", "goal_id", id, "error", err)
		a = ai.Fallback()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.analyzing = false
	// the goal may have been deleted meanwhile
	if g, ok := goals.Find(s.goals, id); ok {
		s.goals, _ = goals.Replace(s.goals, goals.ApplyAnalysis(g, a))
		s.scheduleLocked()
	}
}

// ToggleCompleted flips the completed flag of goal id.
func (s *Session) ToggleCompleted(id string) bool {
	return s.update(id, goals.ToggleCompleted)
}

// ToggleSubtask flips one subtask of goal id.
func (s *Session) ToggleSubtask(id, text string) bool {
	return s.update(id, func(g model.Goal) model.Goal { return goals.ToggleSubtask(g, text) })
}

// ToggleHabitToday flips today's history entry of goal id.
func (s *Session) ToggleHabitToday(id string) bool {
	today := s.now()
	return s.update(id, func(g model.Goal) model.Goal { return goals.ToggleHabitToday(g, today) })
}

// SetCategory reclassifies goal id.
func (s *Session) SetCategory(id string, c model.Category) bool {
	return s.update(id, func(g model.Goal) model.Goal { return goals.SetCategory(g, c) })
}

// Delete removes goal id; the next sync omits it.
func (s *Session) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	list, ok := goals.Remove(s.goals, id)
	if !ok {
		return false
	}
	s.goals = list
	s.scheduleLocked()
	return true
}

func (s *Session) update(id string, fn func(model.Goal) model.Goal) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := goals.Find(s.goals, id)
	if !ok {
		return false
	}
	s.goals, _ = goals.Replace(s.goals, fn(g))
	s.scheduleLocked()
	return true
}

// scheduleLocked restarts the debounce timer. s.mu must be held.
func (s *Session) scheduleLocked() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		ctx := context.Background()
		if err := s.sync(ctx); err != nil {
			s.log.Warn(ctx, "background sync failed", "username", s.username, "error", err)
		}
	})
}

// Flush cancels a pending debounce and syncs now.
func (s *Session) Flush(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()
	return s.sync(ctx)
}

// Wait blocks until the outstanding analysis, if any, has been applied.
func (s *Session) Wait() {
	s.inflight.Wait()
}

// Close waits for analysis and flushes the final state.
func (s *Session) Close(ctx context.Context) error {
	s.Wait()
	return s.Flush(ctx)
}

// sync pushes a snapshot. Syncs are serialised so an older snapshot can never
// land after a newer one from this session. A failure leaves local state as is.
func (s *Session) sync(ctx context.Context) error {
	s.syncMu.Lock()
	defer s.syncMu.Unlock()

	snapshot := s.Goals()
	return s.api.SaveGoals(ctx, s.username, snapshot)
}

func cloneAll(list []model.Goal) []model.Goal {
	out := make([]model.Goal, len(list))
	for i, g := range list {
		out[i] = g.Clone()
	}
	return out
}
