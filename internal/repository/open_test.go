package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goaltracker/internal/config"
	"goaltracker/internal/model"
)

func TestOpen_SQLiteFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "goals.db")
	cfg := &config.Config{Backend: config.BackendSQLite, SQLitePath: path}

	store, err := Open(ctx, cfg)
	require.NoError(t, err)
	require.IsType(t, &GormStore{}, store)
	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Goals().ReplaceForUser(ctx, "alice", []model.Goal{{ID: "1", Text: "Read", Category: model.CategoryHobby}}))
	require.NoError(t, store.Close())

	// the file outlives the process
	reopened, err := Open(ctx, cfg)
	require.NoError(t, err)
	defer reopened.Close()
	got, err := reopened.Goals().ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestOpen_DynamoDB(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	cfg := &config.Config{
		Backend:           config.BackendDynamoDB,
		DynamoRegion:      "eu-west-1",
		DynamoTablePrefix: "gt_",
		DynamoEndpoint:    "http://127.0.0.1:8000",
	}

	store, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	ds, ok := store.(*DynamoStore)
	require.True(t, ok)
	assert.Equal(t, "gt_users", ds.usersTable)
	assert.Equal(t, "gt_goals", ds.goalsTable)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{Backend: "carrier-pigeon"})
	assert.Error(t, err)
}
