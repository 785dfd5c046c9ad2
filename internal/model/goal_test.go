package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleGoal() Goal {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	return Goal{
		ID:           "1772357400000",
		Text:         "Pass the driving exam",
		Category:     CategoryChallenge,
		CreatedAt:    &created,
		SubTasks:     []string{"Book lessons", "Study rules", "Mock test"},
		DoneSubTasks: []string{"Book lessons"},
		History:      map[string]bool{"2026-03-02": true},
		Roadmap: []RoadmapStep{
			{Month: 3, Task: "Theory"},
			{Month: 4, Task: "Practice"},
		},
		Advice:        "Practice daily",
		RewardIdea:    "Road trip",
		DeadlineMonth: 6,
		IsExam:        true,
	}
}

func TestParseCategory(t *testing.T) {
	c, ok := ParseCategory(" habit ")
	assert.True(t, ok)
	assert.Equal(t, CategoryHabit, c)

	_, ok = ParseCategory("DREAM")
	assert.False(t, ok)
}

func TestGoalRecord_RoundTrip(t *testing.T) {
	g := sampleGoal()

	rec, err := NewGoalRecord("alice", 4, g)
	require.NoError(t, err)
	assert.Equal(t, "alice", rec.Username)
	assert.Equal(t, 4, rec.Position)
	assert.Equal(t, "CHALLENGE", rec.Category)
	assert.NotContains(t, string(rec.Data), "Pass the driving exam", "fixed columns stay out of the blob")

	back, err := rec.Goal()
	require.NoError(t, err)

	want, _ := json.Marshal(g)
	got, _ := json.Marshal(back)
	assert.JSONEq(t, string(want), string(got))
}

func TestGoalRecord_MissingCreatedAtAndData(t *testing.T) {
	rec := GoalRecord{ID: "1", Text: "Knit", Category: "HOBBY"}

	g, err := rec.Goal()
	require.NoError(t, err)
	assert.Nil(t, g.CreatedAt)
	assert.Nil(t, g.History)
}

func TestGoalRecord_CorruptData(t *testing.T) {
	rec := GoalRecord{ID: "1", Data: []byte("{not json")}

	_, err := rec.Goal()
	assert.Error(t, err)
}

func TestGoal_CloneIsDeep(t *testing.T) {
	g := sampleGoal()
	c := g.Clone()

	c.History["2026-03-03"] = true
	c.SubTasks[0] = "changed"
	c.Roadmap[0].Task = "changed"
	*c.CreatedAt = c.CreatedAt.Add(time.Hour)

	assert.Len(t, g.History, 1)
	assert.Equal(t, "Book lessons", g.SubTasks[0])
	assert.Equal(t, "Theory", g.Roadmap[0].Task)
	assert.Equal(t, 9, g.CreatedAt.Hour())
}
