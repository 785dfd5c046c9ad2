package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// GoalRecord is the stored row of a goal: fixed, queryable columns plus an
// opaque JSON blob for the fields analysis keeps evolving.
type GoalRecord struct {
	Username  string         `gorm:"primaryKey;size:255"`
	ID        string         `gorm:"primaryKey;size:64"`
	Position  int            `gorm:"not null;default:0"`
	Text      string         `gorm:"type:text;not null"`
	Category  string         `gorm:"size:16;not null;index"`
	Completed bool           `gorm:"not null;default:false"`
	CreatedOn *time.Time     `gorm:"column:created_at"`
	Data      datatypes.JSON `gorm:"column:data"`
}

// TableName pins the table name across dialects.
func (GoalRecord) TableName() string { return "goals" }

// GoalData is the content of the data column.
type GoalData struct {
	SubTasks      []string        `json:"subTasks,omitempty"`
	DoneSubTasks  []string        `json:"doneSubTasks,omitempty"`
	History       map[string]bool `json:"history,omitempty"`
	Roadmap       []RoadmapStep   `json:"roadmap,omitempty"`
	Advice        string          `json:"advice,omitempty"`
	RewardIdea    string          `json:"rewardIdea,omitempty"`
	DeadlineMonth int             `json:"deadlineMonth,omitempty"`
	IsExam        bool            `json:"isExam,omitempty"`
}

// NewGoalRecord splits g into its stored form.
func NewGoalRecord(username string, position int, g Goal) (GoalRecord, error) {
	data, err := json.Marshal(GoalData{
		SubTasks:      g.SubTasks,
		DoneSubTasks:  g.DoneSubTasks,
		History:       g.History,
		Roadmap:       g.Roadmap,
		Advice:        g.Advice,
		RewardIdea:    g.RewardIdea,
		DeadlineMonth: g.DeadlineMonth,
		IsExam:        g.IsExam,
	})
	if err != nil {
		return GoalRecord{}, fmt.Errorf("marshal goal %s data: %w", g.ID, err)
	}

	rec := GoalRecord{
		Username:  username,
		ID:        g.ID,
		Position:  position,
		Text:      g.Text,
		Category:  string(g.Category),
		Completed: g.Completed,
		Data:      datatypes.JSON(data),
	}
	if g.CreatedAt != nil {
		t := g.CreatedAt.UTC()
		rec.CreatedOn = &t
	}
	return rec, nil
}

// Goal reassembles the stored row.
func (r GoalRecord) Goal() (Goal, error) {
	g := Goal{
		ID:        r.ID,
		Text:      r.Text,
		Category:  Category(r.Category),
		Completed: r.Completed,
	}
	if r.CreatedOn != nil {
		t := r.CreatedOn.UTC()
		g.CreatedAt = &t
	}
	if len(r.Data) == 0 {
		return g, nil
	}

	var data GoalData
	if err := json.Unmarshal(r.Data, &data); err != nil {
		return Goal{}, fmt.Errorf("unmarshal goal %s data: %w", r.ID, err)
	}
	g.SubTasks = data.SubTasks
	g.DoneSubTasks = data.DoneSubTasks
	g.History = data.History
	g.Roadmap = data.Roadmap
	g.Advice = data.Advice
	g.RewardIdea = data.RewardIdea
	g.DeadlineMonth = data.DeadlineMonth
	g.IsExam = data.IsExam
	return g, nil
}
