package goals

import (
	"time"

	"goaltracker/internal/model"
)

// StepStatus places a roadmap step relative to the current month.
type StepStatus string

const (
	StepPassed   StepStatus = "passed"
	StepCurrent  StepStatus = "current"
	StepUpcoming StepStatus = "upcoming"
)

// RoadmapStatus reports where step sits relative to now's month.
func RoadmapStatus(step model.RoadmapStep, now time.Time) StepStatus {
	month := int(now.Month())
	switch {
	case step.Month < month:
		return StepPassed
	case step.Month == month:
		return StepCurrent
	default:
		return StepUpcoming
	}
}

// CompleteRoadmap reports whether r has exactly one step for every month 1-12.
// Analysis is asked for such a plan; nothing guarantees it.
func CompleteRoadmap(r []model.RoadmapStep) bool {
	if len(r) != 12 {
		return false
	}
	var seen [13]bool
	for _, s := range r {
		if s.Month < 1 || s.Month > 12 || seen[s.Month] {
			return false
		}
		seen[s.Month] = true
	}
	return true
}

// CurrentStep returns the roadmap step for now's month.
func CurrentStep(g model.Goal, now time.Time) (model.RoadmapStep, bool) {
	for _, s := range g.Roadmap {
		if RoadmapStatus(s, now) == StepCurrent {
			return s, true
		}
	}
	return model.RoadmapStep{}, false
}

// FilterByCategory keeps goals of category c. An empty category keeps all.
func FilterByCategory(list []model.Goal, c model.Category) []model.Goal {
	out := make([]model.Goal, 0, len(list))
	for _, g := range list {
		if c == "" || g.Category == c {
			out = append(out, g)
		}
	}
	return out
}

// PendingHabit is a habit not yet performed today.
type PendingHabit struct {
	GoalID string     `json:"goalId"`
	Text   string     `json:"text"`
	Stats  HabitStats `json:"stats"`
	AtRisk bool       `json:"atRisk"`
}

// PendingSubTask is an open subtask of an open goal.
type PendingSubTask struct {
	GoalID   string `json:"goalId"`
	GoalText string `json:"goalText"`
	Text     string `json:"text"`
}

// TodayView aggregates what is left to do on one day across all goals.
type TodayView struct {
	Date     string           `json:"date"`
	Habits   []PendingHabit   `json:"habits"`
	SubTasks []PendingSubTask `json:"subTasks"`
}

// Today lists pending habits and pending subtasks of non-completed goals.
func Today(list []model.Goal, day time.Time) TodayView {
	key := DayKey(day)
	view := TodayView{
		Date:     key,
		Habits:   []PendingHabit{},
		SubTasks: []PendingSubTask{},
	}

	for _, g := range list {
		if g.Completed {
			continue
		}
		if g.Category == model.CategoryHabit && !g.History[key] {
			stats := ComputeHabitStats(g, day)
			view.Habits = append(view.Habits, PendingHabit{
				GoalID: g.ID,
				Text:   g.Text,
				Stats:  stats,
				AtRisk: AtRisk(stats),
			})
		}
		for _, st := range g.SubTasks {
			if !g.SubTaskDone(st) {
				view.SubTasks = append(view.SubTasks, PendingSubTask{GoalID: g.ID, GoalText: g.Text, Text: st})
			}
		}
	}
	return view
}

// GoalStats is the stats row of one habit goal.
type GoalStats struct {
	GoalID string `json:"id"`
	Text   string `json:"text"`
	HabitStats
	AtRisk bool `json:"atRisk"`
}

// Stats computes stats for every habit goal in list.
func Stats(list []model.Goal, asOf time.Time) []GoalStats {
	out := []GoalStats{}
	for _, g := range list {
		if g.Category != model.CategoryHabit {
			continue
		}
		s := ComputeHabitStats(g, asOf)
		out = append(out, GoalStats{GoalID: g.ID, Text: g.Text, HabitStats: s, AtRisk: AtRisk(s)})
	}
	return out
}
