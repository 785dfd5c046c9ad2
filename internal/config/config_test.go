package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STORAGE_BACKEND", "DATABASE_URL", "SQLITE_PATH", "DYNAMODB_REGION",
		"DYNAMODB_TABLE_PREFIX", "REQUIRE_AUTH", "AI_TIMEOUT", "SERVER_PORT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
	assert.Equal(t, "goals.db", cfg.SQLitePath)
	assert.Equal(t, "3001", cfg.ServerPort)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.False(t, cfg.RequireAuth)
}

func TestLoad_BackendSelection(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		want    Backend
		wantErr bool
	}{
		{
			name: "connection string selects networked database",
			env:  map[string]string{"DATABASE_URL": "postgres://u:p@db:5432/goals"},
			want: BackendSQL,
		},
		{
			name: "region and prefix select hosted tables",
			env:  map[string]string{"DYNAMODB_REGION": "eu-west-1", "DYNAMODB_TABLE_PREFIX": "goals-"},
			want: BackendDynamoDB,
		},
		{
			name: "region alone falls back to file",
			env:  map[string]string{"DYNAMODB_REGION": "eu-west-1"},
			want: BackendSQLite,
		},
		{
			name: "connection string wins over table pair",
			env: map[string]string{
				"DATABASE_URL":          "postgres://u:p@db:5432/goals",
				"DYNAMODB_REGION":       "eu-west-1",
				"DYNAMODB_TABLE_PREFIX": "goals-",
			},
			want: BackendSQL,
		},
		{
			name: "explicit backend overrides derivation",
			env:  map[string]string{"STORAGE_BACKEND": "sqlite", "DATABASE_URL": "postgres://u:p@db/goals"},
			want: BackendSQLite,
		},
		{
			name:    "explicit sql without url",
			env:     map[string]string{"STORAGE_BACKEND": "sql"},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			env:     map[string]string{"STORAGE_BACKEND": "mongo"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Backend)
		})
	}
}

func TestLoad_ParsesTypedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("REQUIRE_AUTH", "true")
	t.Setenv("AI_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.RequireAuth)
	assert.Equal(t, 5*time.Second, cfg.AITimeout)
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("AI_TIMEOUT", "soon")
	t.Setenv("REQUIRE_AUTH", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.AITimeout)
	assert.False(t, cfg.RequireAuth)
}
