// Package ai talks to the external generative-language service that
// classifies new goals and answers coaching chat messages.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/goals"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
)

// maxResponseBytes bounds how much of an upstream body is read.
const maxResponseBytes = 4 << 20

const analyzeInstruction = `You are a goal coach. Classify the user's goal and plan it.
Answer with one JSON object and nothing else:
{"category": "CHALLENGE" | "HABIT" | "HOBBY",
 "deadlineMonth": 1-12, "isExam": true | false,
 "roadmap": [{"month": 1, "task": "..."}, ... one entry for every month 1 to 12],
 "subTasks": ["...", "...", "..."] (at most 3),
 "advice": "...", "rewardIdea": "..."}
CHALLENGE has a deadline or exam, HABIT is done daily, HOBBY is open-ended.
Months after the deadline get maintenance or next-step tasks.`

const chatInstruction = `You are a supportive goal coach. Keep answers short and practical.
The goal the user is working on, as JSON:
`

// Options configures a Gateway.
type Options struct {
	BaseURL string
	Model   string
	APIKey  string
	Timeout time.Duration
}

// Gateway is a stateless client of the generateContent API.
type Gateway struct {
	endpoint string
	apiKey   string
	http     *http.Client
	log      logging.Logger
}

// New builds a gateway. A zero Timeout means 30 seconds.
func New(opts Options, log logging.Logger) *Gateway {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Gateway{
		endpoint: strings.TrimRight(opts.BaseURL, "/") + "/v1beta/models/" + opts.Model + ":generateContent",
		apiKey:   opts.APIKey,
		http:     &http.Client{Timeout: timeout},
		log:      log,
	}
}

// Fallback is the analysis used whenever the upstream call fails.
func Fallback() model.Analysis {
	return model.Analysis{
		Category: model.CategoryNone,
		Roadmap:  []model.RoadmapStep{},
		SubTasks: []string{},
		Advice:   "analysis failed",
	}
}

// Analyze classifies goalText. It never fails: any upstream problem is
// logged and answered with Fallback.
func (g *Gateway) Analyze(ctx context.Context, goalText string) model.Analysis {
	temp := 0.4
	req := GenerateRequest{
		Contents:          []Content{{Role: "user", Parts: []Part{{Text: goalText}}}},
		SystemInstruction: &Content{Parts: []Part{{Text: analyzeInstruction}}},
		GenerationConfig:  &GenerationConfig{ResponseMimeType: "application/json", Temperature: &temp},
	}

	resp, err := g.generate(ctx, "analyze", req)
	if err != nil {
		g.log.Warn(ctx, "goal analysis failed", "error", err)
		return Fallback()
	}

	a, err := ParseAnalysis(resp.Text())
	if err != nil {
		g.log.Warn(ctx, "goal analysis failed", "error", &apperrors.UpstreamError{Op: "analyze", Err: err})
		return Fallback()
	}
	if !goals.CompleteRoadmap(a.Roadmap) {
		g.log.Warn(ctx, "analysis roadmap is not a full 12-month plan", "steps", len(a.Roadmap))
	}
	return a
}

// Chat answers message in the context of goal. turns is the whole prior
// conversation; nothing is remembered between calls.
func (g *Gateway) Chat(ctx context.Context, message string, turns []Turn, goal *model.Goal) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", apperrors.Validation("message is required")
	}

	snapshot := []byte("{}")
	if goal != nil {
		var err error
		if snapshot, err = json.Marshal(goal); err != nil {
			return "", fmt.Errorf("encode goal: %w", err)
		}
	}

	contents := make([]Content, 0, len(turns)+1)
	for _, t := range turns {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		contents = append(contents, Content{Role: chatRole(t.Role), Parts: []Part{{Text: t.Text}}})
	}
	contents = append(contents, Content{Role: "user", Parts: []Part{{Text: message}}})

	resp, err := g.generate(ctx, "chat", GenerateRequest{
		Contents:          contents,
		SystemInstruction: &Content{Parts: []Part{{Text: chatInstruction + string(snapshot)}}},
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", &apperrors.UpstreamError{Op: "chat", Err: errors.New("empty reply")}
	}
	return text, nil
}

// Forward relays body unchanged and hands back the upstream status and body.
// Only a transport failure is an error.
func (g *Gateway) Forward(ctx context.Context, body []byte) (int, []byte, error) {
	httpResp, err := g.post(ctx, body)
	if err != nil {
		return 0, nil, &apperrors.UpstreamError{Op: "forward", Err: err}
	}
	defer httpResp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return 0, nil, &apperrors.UpstreamError{Op: "forward", StatusCode: httpResp.StatusCode, Err: err}
	}
	return httpResp.StatusCode, out, nil
}

func (g *Gateway) generate(ctx context.Context, op string, req GenerateRequest) (GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return GenerateResponse{}, fmt.Errorf("encode %s request: %w", op, err)
	}

	httpResp, err := g.post(ctx, body)
	if err != nil {
		return GenerateResponse{}, &apperrors.UpstreamError{Op: op, Err: err}
	}
	defer httpResp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBytes))
	if err != nil {
		return GenerateResponse{}, &apperrors.UpstreamError{Op: op, StatusCode: httpResp.StatusCode, Err: err}
	}
	if httpResp.StatusCode != http.StatusOK {
		return GenerateResponse{}, &apperrors.UpstreamError{
			Op:         op,
			StatusCode: httpResp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", truncate(raw, 200)),
		}
	}

	var resp GenerateResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return GenerateResponse{}, &apperrors.UpstreamError{Op: op, StatusCode: httpResp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	if len(resp.Candidates) == 0 {
		return GenerateResponse{}, &apperrors.UpstreamError{Op: op, StatusCode: httpResp.StatusCode, Err: errors.New("no candidates")}
	}
	return resp, nil
}

func (g *Gateway) post(ctx context.Context, body []byte) (*http.Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if g.apiKey != "" {
		httpReq.Header.Set("x-goog-api-key", g.apiKey)
	}
	return g.http.Do(httpReq)
}

func chatRole(role string) string {
	switch strings.ToLower(role) {
	case "model", "assistant", "ai", "bot":
		return "model"
	default:
		return "user"
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
