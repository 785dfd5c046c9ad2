package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"goaltracker/internal/model"
)

// StripFence removes a markdown code fence around s, including an optional
// language tag after the opening marker. The tag may sit on its own line or
// run straight into the body.
func StripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimSpace(strings.TrimPrefix(s, "```"))
	s = strings.TrimSpace(strings.TrimSuffix(s, "```"))

	if i := strings.IndexFunc(s, func(r rune) bool { return !isTagRune(r) }); i > 0 {
		if r := rune(s[i]); r == '{' || r == '[' || unicode.IsSpace(r) {
			s = s[i:]
		}
	}
	return strings.TrimSpace(s)
}

func isTagRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' || r == '+'
}

type rawAnalysis struct {
	Category      string              `json:"category"`
	DeadlineMonth int                 `json:"deadlineMonth"`
	IsExam        bool                `json:"isExam"`
	Roadmap       []model.RoadmapStep `json:"roadmap"`
	SubTasks      []string            `json:"subTasks"`
	Advice        string              `json:"advice"`
	RewardIdea    string              `json:"rewardIdea"`
}

// ParseAnalysis decodes a model answer into an Analysis. Categories are
// matched case-insensitively; anything that is not an analysed category
// becomes NONE. Subtasks are capped.
func ParseAnalysis(text string) (model.Analysis, error) {
	body := StripFence(text)
	if body == "" {
		return model.Analysis{}, errors.New("empty analysis")
	}

	var raw rawAnalysis
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return model.Analysis{}, fmt.Errorf("decode analysis: %w", err)
	}

	category, ok := model.ParseCategory(raw.Category)
	if !ok || category == model.CategoryPending {
		category = model.CategoryNone
	}

	subTasks := make([]string, 0, model.MaxSubTasks)
	for _, st := range raw.SubTasks {
		st = strings.TrimSpace(st)
		if st == "" {
			continue
		}
		if len(subTasks) == model.MaxSubTasks {
			break
		}
		subTasks = append(subTasks, st)
	}

	roadmap := raw.Roadmap
	if roadmap == nil {
		roadmap = []model.RoadmapStep{}
	}
	deadline := raw.DeadlineMonth
	if deadline < 0 || deadline > 12 {
		deadline = 0
	}

	return model.Analysis{
		Category:      category,
		DeadlineMonth: deadline,
		IsExam:        raw.IsExam,
		Roadmap:       roadmap,
		SubTasks:      subTasks,
		Advice:        raw.Advice,
		RewardIdea:    raw.RewardIdea,
	}, nil
}
