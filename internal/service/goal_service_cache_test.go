package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goaltracker/internal/cache"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
)

// memGoalRepository keeps goals in memory and counts reads. When hold is set,
// ReplaceForUser signals entered and waits for hold before writing.
type memGoalRepository struct {
	mu      sync.Mutex
	goals   map[string][]model.Goal
	reads   int
	entered chan struct{}
	hold    chan struct{}
}

func newMemGoalRepository() *memGoalRepository {
	return &memGoalRepository{goals: map[string][]model.Goal{}}
}

func (r *memGoalRepository) ListByUser(_ context.Context, username string) ([]model.Goal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++
	return append([]model.Goal(nil), r.goals[username]...), nil
}

func (r *memGoalRepository) ReplaceForUser(_ context.Context, username string, goals []model.Goal) error {
	if r.hold != nil {
		close(r.entered)
		<-r.hold
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.goals[username] = append([]model.Goal(nil), goals...)
	return nil
}

func (r *memGoalRepository) readCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

func newCachedGoalService(t *testing.T, repo *memGoalRepository) GoalService {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return NewGoalService(repo, c, time.Minute, logging.Nop())
}

func goalIDs(list []model.Goal) []string {
	ids := make([]string, len(list))
	for i, g := range list {
		ids[i] = g.ID
	}
	return ids
}

func TestGoalService_CacheHitAfterLoad(t *testing.T) {
	ctx := context.Background()
	repo := newMemGoalRepository()
	repo.goals["alice"] = []model.Goal{{ID: "1", Text: "Read", Category: model.CategoryHobby}}
	svc := newCachedGoalService(t, repo)

	first, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	second, err := svc.Load(ctx, "alice")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, repo.readCount())
}

func TestGoalService_CacheMissAfterReplace(t *testing.T) {
	ctx := context.Background()
	repo := newMemGoalRepository()
	repo.goals["alice"] = []model.Goal{{ID: "old", Text: "Read", Category: model.CategoryHobby}}
	svc := newCachedGoalService(t, repo)

	_, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Replace(ctx, "alice", []model.Goal{{ID: "new", Text: "Paint", Category: model.CategoryHobby}}))

	got, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, goalIDs(got))
	assert.Equal(t, 2, repo.readCount())
}

func TestGoalService_LoadDuringReplaceDoesNotPinOldSet(t *testing.T) {
	ctx := context.Background()
	repo := newMemGoalRepository()
	repo.goals["alice"] = []model.Goal{{ID: "old", Text: "Read", Category: model.CategoryHobby}}
	repo.entered = make(chan struct{})
	repo.hold = make(chan struct{})
	svc := newCachedGoalService(t, repo)

	done := make(chan error, 1)
	go func() {
		done <- svc.Replace(ctx, "alice", []model.Goal{{ID: "new", Text: "Paint", Category: model.CategoryHobby}})
	}()
	<-repo.entered

	// reads the rows the write has not replaced yet
	during, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"old"}, goalIDs(during))

	close(repo.hold)
	require.NoError(t, <-done)

	after, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"new"}, goalIDs(after))
}

func TestGoalService_CacheScopedByUser(t *testing.T) {
	ctx := context.Background()
	repo := newMemGoalRepository()
	repo.goals["alice"] = []model.Goal{{ID: "a", Text: "Read", Category: model.CategoryHobby}}
	repo.goals["bob"] = []model.Goal{{ID: "b", Text: "Swim", Category: model.CategoryHabit}}
	svc := newCachedGoalService(t, repo)

	_, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	require.NoError(t, svc.Replace(ctx, "bob", []model.Goal{}))

	alice, err := svc.Load(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, goalIDs(alice))
	bob, err := svc.Load(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, bob)
}
