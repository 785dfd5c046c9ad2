// Package cli implements goalctl, an interactive terminal client for the goal
// tracker server.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"goaltracker/internal/goals"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
	"goaltracker/internal/session"
)

var errNotLoggedIn = errors.New("not logged in, use register or login first")

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Config holds the client settings.
type Config struct {
	ServerURL string
	Timeout   time.Duration
	Debounce  time.Duration
}

// App is the goalctl client state: one API connection and at most one open
// session.
type App struct {
	client   *session.APIClient
	debounce time.Duration
	log      logging.Logger
	now      func() time.Time

	sess *session.Session
}

// NewApp creates a logged-out client.
func NewApp(cfg Config, log logging.Logger) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{
		client:   session.NewAPIClient(cfg.ServerURL, cfg.Timeout),
		debounce: cfg.Debounce,
		log:      log,
		now:      time.Now,
	}
}

// Run reads commands from stdin until exit and flushes the session on the way out.
func (a *App) Run(ctx context.Context) {
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
	if err := a.Logout(ctx); err != nil && !errors.Is(err, errNotLoggedIn) {
		printlnFn("Error:", err)
	}
}

func (a *App) status() string {
	if a.sess == nil {
		return "not logged in"
	}
	return a.sess.Username()
}

func (a *App) isLoggedIn() bool { return a.sess != nil }

func (a *App) Register(ctx context.Context, username string) error {
	return a.authenticate(ctx, username, a.client.Register)
}

func (a *App) Login(ctx context.Context, username string) error {
	return a.authenticate(ctx, username, a.client.Login)
}

func (a *App) authenticate(ctx context.Context, username string, fn func(context.Context, string, string) error) error {
	if username == "" {
		return errors.New("username is required")
	}
	if a.sess != nil {
		if err := a.Logout(ctx); err != nil {
			return err
		}
	}

	fmt.Print("Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("read password: %w", err)
	}
	if err := fn(ctx, username, string(pw)); err != nil {
		return err
	}

	s := session.New(a.client, username, session.Options{
		Debounce: a.debounce,
		Now:      a.now,
		Logger:   a.log.With("username", username),
	})
	if err := s.Load(ctx); err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	a.sess = s
	printlnFn(fmt.Sprintf("Logged in as %s, %d goals", username, len(s.Goals())))
	return nil
}

func (a *App) List(_ context.Context, category string) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	var c model.Category
	if category != "" {
		parsed, ok := model.ParseCategory(category)
		if !ok {
			return fmt.Errorf("unknown category %q", category)
		}
		c = parsed
	}

	list := a.sess.Filter(c)
	if len(list) == 0 {
		printlnFn("No goals")
		return nil
	}
	now := a.now()
	for _, g := range list {
		printlnFn(formatGoal(g))
		for _, st := range g.SubTasks {
			mark := " "
			if g.SubTaskDone(st) {
				mark = "x"
			}
			printlnFn(fmt.Sprintf("      [%s] %s", mark, st))
		}
		if step, ok := goals.CurrentStep(g, now); ok {
			printlnFn(fmt.Sprintf("      this month: %s", step.Task))
		}
		if g.Advice != "" {
			printlnFn("      advice:", g.Advice)
		}
	}
	return nil
}

func (a *App) Add(_ context.Context, text string) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	g, ok, err := a.sess.Create(text)
	if err != nil {
		return err
	}
	if !ok {
		printlnFn(fmt.Sprintf("Goal limit of %d reached", model.MaxGoalsPerUser))
		return nil
	}
	printlnFn(fmt.Sprintf("Added %s, analysing...", g.ID))
	return nil
}

func (a *App) Today(_ context.Context) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	view := a.sess.Today()
	printlnFn("Today", view.Date)
	if len(view.Habits) == 0 && len(view.SubTasks) == 0 {
		printlnFn("Nothing left for today")
		return nil
	}
	for _, h := range view.Habits {
		line := fmt.Sprintf("  habit   %s %s (%d%%)", h.GoalID, h.Text, h.Stats.Rate)
		if h.AtRisk {
			line += " AT RISK"
		}
		printlnFn(line)
	}
	for _, st := range view.SubTasks {
		printlnFn(fmt.Sprintf("  subtask %s %s: %s", st.GoalID, st.GoalText, st.Text))
	}
	return nil
}

func (a *App) Stats(_ context.Context) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	stats := a.sess.Stats()
	if len(stats) == 0 {
		printlnFn("No habits")
		return nil
	}
	for _, s := range stats {
		line := fmt.Sprintf("%s %s: %d%% (%d/%d days)", s.GoalID, s.Text, s.Rate, s.Count, s.DaysElapsed)
		if s.AtRisk {
			line += " AT RISK"
		}
		printlnFn(line)
	}
	return nil
}

func (a *App) Done(_ context.Context, id string) error {
	return a.mutate(id, func(s *session.Session) bool { return s.ToggleCompleted(id) })
}

func (a *App) Habit(_ context.Context, id string) error {
	return a.mutate(id, func(s *session.Session) bool { return s.ToggleHabitToday(id) })
}

func (a *App) Subtask(_ context.Context, id, text string) error {
	if text == "" {
		return errors.New("usage: subtask <id> <text>")
	}
	return a.mutate(id, func(s *session.Session) bool { return s.ToggleSubtask(id, text) })
}

func (a *App) Category(_ context.Context, id, category string) error {
	c, ok := model.ParseCategory(category)
	if !ok {
		return fmt.Errorf("unknown category %q", category)
	}
	return a.mutate(id, func(s *session.Session) bool { return s.SetCategory(id, c) })
}

func (a *App) Delete(_ context.Context, id string) error {
	return a.mutate(id, func(s *session.Session) bool { return s.Delete(id) })
}

func (a *App) mutate(id string, fn func(*session.Session) bool) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	if id == "" {
		return errors.New("goal id is required")
	}
	if !fn(a.sess) {
		return fmt.Errorf("no goal with id %s", id)
	}
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	if err := a.sess.Flush(ctx); err != nil {
		return err
	}
	printlnFn("Synced")
	return nil
}

// Logout waits for a running analysis, pushes the final state, revokes the
// token and drops the session.
func (a *App) Logout(ctx context.Context) error {
	if a.sess == nil {
		return errNotLoggedIn
	}
	err := a.sess.Close(ctx)
	a.sess = nil
	return errors.Join(err, a.client.Logout(ctx))
}

func formatGoal(g model.Goal) string {
	mark := " "
	if g.Completed {
		mark = "x"
	}
	line := fmt.Sprintf("[%s] %s %-9s %s", mark, g.ID, g.Category, g.Text)
	if g.DeadlineMonth > 0 {
		line += fmt.Sprintf(" (due %s)", time.Month(g.DeadlineMonth))
	}
	if g.IsExam {
		line += " [exam]"
	}
	return strings.TrimRight(line, " ")
}
