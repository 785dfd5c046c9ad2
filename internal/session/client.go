package session

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/goals"
	"goaltracker/internal/model"
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("server: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("server: %d: %s", e.StatusCode, e.Message)
}

// APIClient talks to the goal tracker HTTP API. It implements API.
type APIClient struct {
	baseURL string
	http    *http.Client

	mu    sync.RWMutex
	token string
}

var _ API = (*APIClient)(nil)

// NewAPIClient creates a client for the server at baseURL.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &APIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *APIClient) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

type authResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Register creates an account and keeps its token.
func (c *APIClient) Register(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/register", username, password)
}

// Login authenticates and keeps the token.
func (c *APIClient) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/api/login", username, password)
}

// Logout revokes the current token on the server and forgets it. Without a
// token it does nothing.
func (c *APIClient) Logout(ctx context.Context) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return nil
	}
	err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil)
	c.SetToken("")
	return err
}

func (c *APIClient) authenticate(ctx context.Context, path, username, password string) error {
	var resp authResponse
	body := map[string]string{"username": username, "password": password}
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return err
	}
	c.SetToken(resp.Token)
	return nil
}

func (c *APIClient) LoadGoals(ctx context.Context, username string) ([]model.Goal, error) {
	var list []model.Goal
	err := c.do(ctx, http.MethodGet, "/api/goals?username="+url.QueryEscape(username), nil, &list)
	return list, err
}

func (c *APIClient) SaveGoals(ctx context.Context, username string, list []model.Goal) error {
	body := struct {
		Username string       `json:"username"`
		Goals    []model.Goal `json:"goals"`
	}{Username: username, Goals: list}
	return c.do(ctx, http.MethodPost, "/api/goals", body, nil)
}

func (c *APIClient) AnalyzeGoal(ctx context.Context, text string) (model.Analysis, error) {
	var a model.Analysis
	err := c.do(ctx, http.MethodPost, "/api/analyze/goal", map[string]string{"text": text}, &a)
	return a, err
}

// Stats fetches the server-side habit stats for username.
func (c *APIClient) Stats(ctx context.Context, username string) ([]goals.GoalStats, error) {
	var stats []goals.GoalStats
	err := c.do(ctx, http.MethodGet, "/api/goals/stats?username="+url.QueryEscape(username), nil, &stats)
	return stats, err
}

func (c *APIClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.mu.RLock()
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	c.mu.RUnlock()

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var er apperrors.ErrorResponse
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		if json.Unmarshal(raw, &er) != nil || er.Error == "" {
			er.Error = strings.TrimSpace(string(raw))
		}
		return &APIError{StatusCode: resp.StatusCode, Message: er.Error, Code: er.Code}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
