package cli

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goaltracker/internal/model"
)

// fakeServer is a goal tracker API keeping one user's goals in memory.
type fakeServer struct {
	mu      sync.Mutex
	goals   []model.Goal
	saves   int
	revoked bool
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	auth := func(w http.ResponseWriter, r *http.Request) {
		var req struct{ Username, Password string }
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"invalid credentials","code":"UNAUTHORIZED"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"success": true, "username": req.Username, "token": "tok"})
	}
	mux.HandleFunc("/api/register", auth)
	mux.HandleFunc("/api/login", auth)
	mux.HandleFunc("/api/goals", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(f.goals)
			return
		}
		var req struct {
			Goals []model.Goal `json:"goals"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		f.goals = req.Goals
		f.saves++
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/api/logout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.revoked = r.Header.Get("Authorization") == "Bearer tok"
		f.mu.Unlock()
		_, _ = w.Write([]byte(`{"status":"success"}`))
	})
	mux.HandleFunc("/api/analyze/goal", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(model.Analysis{
			Category: model.CategoryHabit,
			SubTasks: []string{"Buy running shoes"},
			Advice:   "Start slow",
		})
	})
	return mux
}

func (f *fakeServer) stored() []model.Goal {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goals
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

func newTestApp(t *testing.T) (*App, *fakeServer) {
	t.Helper()
	fs := &fakeServer{}
	srv := httptest.NewServer(fs.handler(t))
	t.Cleanup(srv.Close)

	app := NewApp(Config{ServerURL: srv.URL, Timeout: time.Second, Debounce: time.Hour}, nil)
	app.now = func() time.Time { return time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC) }
	return app, fs
}

func TestApp_GoalLifecycle(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "secret")
	app, fs := newTestApp(t)
	ctx := context.Background()

	require.ErrorIs(t, app.List(ctx, ""), errNotLoggedIn)
	require.NoError(t, app.Register(ctx, "alice"))
	require.True(t, app.isLoggedIn())
	assert.Equal(t, "alice", app.status())

	require.NoError(t, app.Add(ctx, "Run 5km every morning"))
	app.sess.Wait()

	g := app.sess.Goals()[0]
	require.Equal(t, model.CategoryHabit, g.Category)
	require.NoError(t, app.Habit(ctx, g.ID))
	require.NoError(t, app.Subtask(ctx, g.ID, "Buy running shoes"))
	require.NoError(t, app.List(ctx, "habit"))
	require.NoError(t, app.Today(ctx))
	require.NoError(t, app.Stats(ctx))
	assert.Contains(t, *out, "Nothing left for today")

	require.Error(t, app.Done(ctx, "nope"))
	require.Error(t, app.Category(ctx, g.ID, "chores"))

	require.NoError(t, app.Logout(ctx))
	assert.False(t, app.isLoggedIn())
	fs.mu.Lock()
	assert.True(t, fs.revoked)
	fs.mu.Unlock()

	stored := fs.stored()
	require.Len(t, stored, 1)
	assert.True(t, stored[0].History["2026-10-14"])
	assert.Equal(t, []string{"Buy running shoes"}, stored[0].DoneSubTasks)
}

func TestApp_LoginLoadsGoals(t *testing.T) {
	out := captureOutput(t)
	stubPassword(t, "secret")
	app, fs := newTestApp(t)
	fs.goals = []model.Goal{{ID: "1", Text: "Paint", Category: model.CategoryHobby}}

	require.NoError(t, app.Login(context.Background(), "alice"))
	assert.Contains(t, *out, "Logged in as alice, 1 goals")

	require.NoError(t, app.Delete(context.Background(), "1"))
	require.NoError(t, app.Sync(context.Background()))
	assert.Empty(t, fs.stored())
}

func TestApp_WrongPassword(t *testing.T) {
	captureOutput(t)
	stubPassword(t, "wrong")
	app, _ := newTestApp(t)

	err := app.Login(context.Background(), "alice")
	require.Error(t, err)
	assert.False(t, app.isLoggedIn())
}
