package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"goaltracker/internal/model"
)

// GormStore serves the relational backends: the embedded sqlite file and a
// networked Postgres or MySQL database.
type GormStore struct {
	db    *gorm.DB
	users UserRepository
	goals GoalRepository
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an open connection.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{
		db:    db,
		users: NewUserRepository(db),
		goals: NewGoalRepository(db),
	}
}

func (s *GormStore) Users() UserRepository { return s.users }

func (s *GormStore) Goals() GoalRepository { return s.goals }

// Migrate creates or updates the users and goals tables.
func (s *GormStore) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&model.User{}, &model.GoalRecord{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
