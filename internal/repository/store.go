package repository

import (
	"context"
	"errors"

	"goaltracker/internal/model"
)

// ErrNotFound is returned when a lookup matches no record.
var ErrNotFound = errors.New("record not found")

// UserRepository defines credential persistence operations.
type UserRepository interface {
	// Create stores a new user. An existing username yields errors.ErrConflict
	// and leaves the stored credential untouched.
	Create(ctx context.Context, user *model.User) error
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// GoalRepository defines goal persistence operations. A user's goals are an
// opaque set that is always replaced as a whole.
type GoalRepository interface {
	ListByUser(ctx context.Context, username string) ([]model.Goal, error)
	// ReplaceForUser deletes every stored goal of username and inserts goals
	// in their given order.
	ReplaceForUser(ctx context.Context, username string, goals []model.Goal) error
}

// Store is the persistence facade: one backend per process, constructed at
// startup and handed to the services.
type Store interface {
	Users() UserRepository
	Goals() GoalRepository
	Migrate(ctx context.Context) error
	Close() error
}
