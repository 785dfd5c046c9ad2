// Package goals holds the goal/habit state transitions and the statistics
// derived from a habit's day-by-day history.
package goals

import (
	"math"
	"time"

	"goaltracker/internal/model"
)

const (
	// statsWindowDays is the longest trailing window the completion rate looks at.
	statsWindowDays = 30
	// atRiskRate and atRiskMinDays define the fixed at-risk product rule.
	atRiskRate    = 80
	atRiskMinDays = 3
)

// HabitStats is the completion summary of a habit over its trailing window.
type HabitStats struct {
	Rate        int `json:"rate"`
	DaysElapsed int `json:"daysElapsed"`
	Count       int `json:"count"`
}

// ComputeHabitStats derives the completion rate of g as of asOf. The window is
// the goal's age in days, rounded up and clamped to [1, 30], ending on asOf's
// day. Non-habit goals and goals without a creation time get zero stats.
func ComputeHabitStats(g model.Goal, asOf time.Time) HabitStats {
	if g.Category != model.CategoryHabit || g.CreatedAt == nil {
		return HabitStats{}
	}

	hours := asOf.Sub(*g.CreatedAt).Hours()
	days := int(math.Ceil(hours / 24))
	if days < 1 {
		days = 1
	}
	if days > statsWindowDays {
		days = statsWindowDays
	}

	count := 0
	for i := 0; i < days; i++ {
		if g.History[DayKey(asOf.AddDate(0, 0, -i))] {
			count++
		}
	}

	return HabitStats{
		Rate:        int(math.Round(100 * float64(count) / float64(days))),
		DaysElapsed: days,
		Count:       count,
	}
}

// AtRisk flags a habit whose rate dropped below 80% after at least three days.
func AtRisk(s HabitStats) bool {
	return s.Rate < atRiskRate && s.DaysElapsed >= atRiskMinDays
}

// DayKey formats t as a history key in t's own location.
func DayKey(t time.Time) string {
	return t.Format(model.DayLayout)
}

// ValidDayKey reports whether key is a well-formed calendar day.
func ValidDayKey(key string) bool {
	_, err := time.Parse(model.DayLayout, key)
	return err == nil
}
