package goals

import (
	"strconv"
	"strings"
	"time"

	"goaltracker/internal/model"
)

// NewGoal builds a PENDING goal created at now. Its id is derived from the
// creation time in milliseconds and bumped until it is unique in existing.
func NewGoal(text string, now time.Time, existing []model.Goal) model.Goal {
	taken := make(map[string]struct{}, len(existing))
	for _, g := range existing {
		taken[g.ID] = struct{}{}
	}

	ms := now.UnixMilli()
	id := strconv.FormatInt(ms, 10)
	for {
		if _, ok := taken[id]; !ok {
			break
		}
		ms++
		id = strconv.FormatInt(ms, 10)
	}

	created := now.UTC()
	return model.Goal{
		ID:        id,
		Text:      strings.TrimSpace(text),
		Category:  model.CategoryPending,
		CreatedAt: &created,
	}
}

// AppendCapped appends g unless the collection is already at the cap.
// The second result reports whether g was added.
func AppendCapped(list []model.Goal, g model.Goal) ([]model.Goal, bool) {
	if len(list) >= model.MaxGoalsPerUser {
		return list, false
	}
	return append(list, g), true
}

// ToggleCompleted flips the completed flag.
func ToggleCompleted(g model.Goal) model.Goal {
	c := g.Clone()
	c.Completed = !c.Completed
	return c
}

// ToggleSubtask marks text done, or un-marks it when already done.
// Texts that are not subtasks of g leave it unchanged.
func ToggleSubtask(g model.Goal, text string) model.Goal {
	c := g.Clone()
	known := false
	for _, st := range c.SubTasks {
		if st == text {
			known = true
			break
		}
	}
	if !known {
		return c
	}

	for i, d := range c.DoneSubTasks {
		if d == text {
			c.DoneSubTasks = append(c.DoneSubTasks[:i], c.DoneSubTasks[i+1:]...)
			return c
		}
	}
	c.DoneSubTasks = append(c.DoneSubTasks, text)
	return c
}

// ToggleHabitToday sets today's history entry, or removes it when set.
func ToggleHabitToday(g model.Goal, today time.Time) model.Goal {
	c := g.Clone()
	key := DayKey(today)
	if c.History[key] {
		delete(c.History, key)
		return c
	}
	if c.History == nil {
		c.History = make(map[string]bool)
	}
	c.History[key] = true
	return c
}

// SetCategory reclassifies g by explicit user action.
func SetCategory(g model.Goal, category model.Category) model.Goal {
	c := g.Clone()
	c.Category = category
	return c
}

// ApplyAnalysis moves a PENDING goal to its analysed category and fills the
// advisory fields. A goal the user already reclassified keeps its category
// and only gains the advisory fields it does not have yet.
func ApplyAnalysis(g model.Goal, a model.Analysis) model.Goal {
	c := g.Clone()
	subTasks := append([]string(nil), a.SubTasks...)
	if len(subTasks) > model.MaxSubTasks {
		subTasks = subTasks[:model.MaxSubTasks]
	}

	if c.Category != model.CategoryPending {
		if len(c.SubTasks) == 0 {
			c.SubTasks = subTasks
		}
		if len(c.Roadmap) == 0 {
			c.Roadmap = append([]model.RoadmapStep(nil), a.Roadmap...)
		}
		if c.Advice == "" {
			c.Advice = a.Advice
		}
		if c.RewardIdea == "" {
			c.RewardIdea = a.RewardIdea
		}
		if c.DeadlineMonth == 0 {
			c.DeadlineMonth = a.DeadlineMonth
		}
		c.IsExam = c.IsExam || a.IsExam
		return c
	}

	c.Category = a.Category
	if c.Category == "" {
		c.Category = model.CategoryNone
	}
	c.SubTasks = subTasks
	c.Roadmap = append([]model.RoadmapStep(nil), a.Roadmap...)
	c.Advice = a.Advice
	c.RewardIdea = a.RewardIdea
	c.DeadlineMonth = a.DeadlineMonth
	c.IsExam = a.IsExam
	return c
}

// Replace returns list with the goal of the same id swapped for g.
func Replace(list []model.Goal, g model.Goal) ([]model.Goal, bool) {
	for i := range list {
		if list[i].ID == g.ID {
			out := append([]model.Goal(nil), list...)
			out[i] = g
			return out, true
		}
	}
	return list, false
}

// Remove drops the goal with the given id.
func Remove(list []model.Goal, id string) ([]model.Goal, bool) {
	for i := range list {
		if list[i].ID == id {
			out := make([]model.Goal, 0, len(list)-1)
			out = append(out, list[:i]...)
			return append(out, list[i+1:]...), true
		}
	}
	return list, false
}

// Find returns the goal with the given id.
func Find(list []model.Goal, id string) (model.Goal, bool) {
	for _, g := range list {
		if g.ID == id {
			return g, true
		}
	}
	return model.Goal{}, false
}
