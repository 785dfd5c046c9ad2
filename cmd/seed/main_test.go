package main

import (
	"context"
	"flag"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goaltracker/internal/auth"
	"goaltracker/internal/config"
	"goaltracker/internal/db"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"
	"goaltracker/internal/service"
)

const seedDoc = `[
  {"username": "alice", "password": "pw", "goals": [
    {"id": "1", "text": "Run 5km every morning", "category": "HABIT", "history": {"2026-10-13": true}},
    {"id": "2", "text": "Pass the driving exam", "category": "CHALLENGE", "deadlineMonth": 6, "isExam": true}
  ]},
  {"username": "bob", "password": "pw"}
]`

func TestLoadSeed_FileAndURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0o600))

	fromFile, err := loadSeed(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, fromFile, 2)
	assert.Len(t, fromFile[0].Goals, 2)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(seedDoc))
	}))
	defer srv.Close()
	fromURL, err := loadSeed(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, fromFile, fromURL)
}

func TestLoadSeed_Errors(t *testing.T) {
	_, err := loadSeed(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()
	_, err = loadSeed(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestSeedUsers_CreatesThenUpdates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	users, err := loadSeed(ctx, writeSeed(t))
	require.NoError(t, err)

	log := logging.Nop()
	authService := service.NewAuthService(store.Users(), auth.NewJWTService("test-secret"), auth.NewTokenStore(nil), log)
	goalService := service.NewGoalService(store.Goals(), nil, 0, log)

	created, updated, err := seedUsers(ctx, authService, goalService, users)
	require.NoError(t, err)
	assert.Equal(t, 2, created)
	assert.Equal(t, 0, updated)

	users[0].Goals = users[0].Goals[:1]
	created, updated, err = seedUsers(ctx, authService, goalService, users)
	require.NoError(t, err)
	assert.Equal(t, 0, created)
	assert.Equal(t, 2, updated)

	list, err := goalService.Load(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.CategoryHabit, list[0].Category)

	_, err = authService.Login(ctx, "bob", "pw")
	assert.NoError(t, err)
}

func TestSeedUsers_RejectsInvalidGoals(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	authService := service.NewAuthService(store.Users(), auth.NewJWTService("test-secret"), auth.NewTokenStore(nil), logging.Nop())
	goalService := service.NewGoalService(store.Goals(), nil, 0, logging.Nop())

	users := []SeedUser{{Username: "carol", Password: "pw", Goals: []model.Goal{{ID: "", Text: "x", Category: model.CategoryHobby}}}}
	_, _, err := seedUsers(ctx, authService, goalService, users)
	assert.Error(t, err)
}

// runWith calls run with fresh flags and a sqlite file under dir.
func runWith(t *testing.T, dir string, args ...string) error {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(dir, "goals.db"))
	t.Setenv("REDIS_ADDR", "")

	origArgs, origFlags := os.Args, flag.CommandLine
	t.Cleanup(func() { os.Args, flag.CommandLine = origArgs, origFlags })
	os.Args = append([]string{"seed"}, args...)
	flag.CommandLine = flag.NewFlagSet("seed", flag.ContinueOnError)
	return run()
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, runWith(t, dir, "-from", writeSeed(t)))

	cfg, err := config.Load()
	require.NoError(t, err)
	store, err := repository.Open(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	list, err := store.Goals().ListByUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRun_ReturnsErrors(t *testing.T) {
	dir := t.TempDir()
	err := runWith(t, dir, "-from", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	// the deferred close ran, so the file opens again
	cfg, err := config.Load()
	require.NoError(t, err)
	store, err := repository.Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.NoError(t, store.Close())
}

func newTestStore(t *testing.T) *repository.GormStore {
	t.Helper()
	gdb, err := db.OpenDialector(sqlite.Open(":memory:"))
	require.NoError(t, err)
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	store := repository.NewGormStore(gdb)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(path, []byte(seedDoc), 0o600))
	return path
}
