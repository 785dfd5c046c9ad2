package repository

import (
	"context"

	"gorm.io/gorm"

	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/model"
)

type goalRepository struct {
	db *gorm.DB
}

// NewGoalRepository builds a GORM-backed repository.
func NewGoalRepository(db *gorm.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) ListByUser(ctx context.Context, username string) ([]model.Goal, error) {
	var records []model.GoalRecord
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		Order("position, id").
		Find(&records).Error
	if err != nil {
		return nil, apperrors.Persistence("list goals", err)
	}

	goals := make([]model.Goal, 0, len(records))
	for _, rec := range records {
		g, err := rec.Goal()
		if err != nil {
			return nil, apperrors.Persistence("decode goal", err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// ReplaceForUser runs the delete and the inserts in one transaction; any
// failure rolls both back.
func (r *goalRepository) ReplaceForUser(ctx context.Context, username string, goals []model.Goal) error {
	records := make([]model.GoalRecord, 0, len(goals))
	for i, g := range goals {
		rec, err := model.NewGoalRecord(username, i, g)
		if err != nil {
			return apperrors.Persistence("encode goal", err)
		}
		records = append(records, rec)
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("username = ?", username).Delete(&model.GoalRecord{}).Error; err != nil {
			return err
		}
		if len(records) == 0 {
			return nil
		}
		return tx.CreateInBatches(records, 100).Error
	})
	return apperrors.Persistence("replace goals", err)
}
