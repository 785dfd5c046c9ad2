package model

import (
	"strings"
	"time"
)

// Category classifies a goal. PENDING marks a goal whose analysis is still
// outstanding; NONE marks a failed analysis.
type Category string

const (
	CategoryChallenge Category = "CHALLENGE"
	CategoryHabit     Category = "HABIT"
	CategoryHobby     Category = "HOBBY"
	CategoryPending   Category = "PENDING"
	CategoryNone      Category = "NONE"
)

// MaxGoalsPerUser caps a user's goal collection.
const MaxGoalsPerUser = 100

// MaxSubTasks caps the subtasks produced by analysis.
const MaxSubTasks = 3

// DayLayout is the layout of history day keys.
const DayLayout = "2006-01-02"

// ParseCategory normalises s. Only the three analysed categories and the two
// markers are accepted.
func ParseCategory(s string) (Category, bool) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	switch c {
	case CategoryChallenge, CategoryHabit, CategoryHobby, CategoryPending, CategoryNone:
		return c, true
	}
	return "", false
}

// RoadmapStep is one month of a challenge plan.
type RoadmapStep struct {
	Month int    `json:"month"`
	Task  string `json:"task"`
}

// Goal is a user-authored aspiration plus everything analysis attached to it.
type Goal struct {
	ID            string          `json:"id"`
	Text          string          `json:"text"`
	Category      Category        `json:"category"`
	Completed     bool            `json:"completed"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
	SubTasks      []string        `json:"subTasks,omitempty"`
	DoneSubTasks  []string        `json:"doneSubTasks,omitempty"`
	History       map[string]bool `json:"history,omitempty"`
	Roadmap       []RoadmapStep   `json:"roadmap,omitempty"`
	Advice        string          `json:"advice,omitempty"`
	RewardIdea    string          `json:"rewardIdea,omitempty"`
	DeadlineMonth int             `json:"deadlineMonth,omitempty"`
	IsExam        bool            `json:"isExam,omitempty"`
}

// Clone returns a deep copy of g.
func (g Goal) Clone() Goal {
	c := g
	if g.CreatedAt != nil {
		t := *g.CreatedAt
		c.CreatedAt = &t
	}
	if g.SubTasks != nil {
		c.SubTasks = append([]string(nil), g.SubTasks...)
	}
	if g.DoneSubTasks != nil {
		c.DoneSubTasks = append([]string(nil), g.DoneSubTasks...)
	}
	if g.Roadmap != nil {
		c.Roadmap = append([]RoadmapStep(nil), g.Roadmap...)
	}
	if g.History != nil {
		c.History = make(map[string]bool, len(g.History))
		for k, v := range g.History {
			c.History[k] = v
		}
	}
	return c
}

// SubTaskDone reports whether text is marked done.
func (g Goal) SubTaskDone(text string) bool {
	for _, d := range g.DoneSubTasks {
		if d == text {
			return true
		}
	}
	return false
}

// Analysis is what the advisory gateway attaches to a goal.
type Analysis struct {
	Category      Category      `json:"category"`
	DeadlineMonth int           `json:"deadlineMonth"`
	IsExam        bool          `json:"isExam"`
	Roadmap       []RoadmapStep `json:"roadmap"`
	SubTasks      []string      `json:"subTasks"`
	Advice        string        `json:"advice"`
	RewardIdea    string        `json:"rewardIdea"`
}
