package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/model"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository builds a GORM-backed repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create checks and inserts inside one transaction; the primary key on
// username still catches a concurrent insert that slips past the check.
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&model.User{}).Where("username = ?", user.Username).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return apperrors.ErrConflict
		}
		return tx.Create(user).Error
	})
	if errors.Is(err, apperrors.ErrConflict) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrConflict
	}
	return apperrors.Persistence("create user", err)
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Persistence("find user", err)
	}
	return &user, nil
}
