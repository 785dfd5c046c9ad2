package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"goaltracker/internal/ai"
	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
)

// Advisor is the generative-language gateway as the handlers use it.
type Advisor interface {
	Analyze(ctx context.Context, goalText string) model.Analysis
	Chat(ctx context.Context, message string, turns []ai.Turn, goal *model.Goal) (string, error)
	Forward(ctx context.Context, body []byte) (int, []byte, error)
}

// AIHandler handles the analysis and chat endpoints.
type AIHandler struct {
	advisor Advisor
	log     logging.Logger
}

// NewAIHandler creates a new AI handler.
func NewAIHandler(advisor Advisor, log logging.Logger) *AIHandler {
	return &AIHandler{advisor: advisor, log: log}
}

// AnalyzeGoalRequest asks for the classification of one goal.
type AnalyzeGoalRequest struct {
	Text string `json:"text" validate:"required"`
}

// ChatRequest is one chat message with the conversation so far.
type ChatRequest struct {
	Message string      `json:"message" validate:"required"`
	Context []ai.Turn   `json:"context"`
	Goal    *model.Goal `json:"goal"`
}

// Analyze godoc
// @Summary Raw pass-through to the generateContent API
// @Tags ai
// @Accept json
// @Produce json
// @Param request body ai.GenerateRequest true "generateContent request"
// @Success 200 {object} ai.GenerateResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /analyze [post]
func (h *AIHandler) Analyze(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}

	ctx := c.Request().Context()
	status, out, err := h.advisor.Forward(ctx, body)
	if err != nil {
		h.log.Error(ctx, "analyze pass-through failed", "error", err)
		return mapError(err)
	}
	return c.Blob(status, echo.MIMEApplicationJSON, out)
}

// AnalyzeGoal godoc
// @Summary Classify a goal and plan it
// @Description Always answers 200; an unavailable upstream yields category NONE.
// @Tags ai
// @Accept json
// @Produce json
// @Param request body AnalyzeGoalRequest true "Goal text"
// @Success 200 {object} model.Analysis
// @Failure 400 {object} errors.ErrorResponse
// @Router /analyze/goal [post]
func (h *AIHandler) AnalyzeGoal(c echo.Context) error {
	var req AnalyzeGoalRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return mapError(apperrors.Validation("text is required"))
	}

	return c.JSON(http.StatusOK, h.advisor.Analyze(c.Request().Context(), req.Text))
}

// Chat godoc
// @Summary Coaching chat about one goal
// @Tags ai
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Message, prior turns and goal snapshot"
// @Success 200 {object} ai.GenerateResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chat [post]
func (h *AIHandler) Chat(c echo.Context) error {
	var req ChatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return mapError(apperrors.Validation("message is required"))
	}

	ctx := c.Request().Context()
	reply, err := h.advisor.Chat(ctx, req.Message, req.Context, req.Goal)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			h.log.Error(ctx, "chat failed", "error", err)
		}
		return mapError(err)
	}
	return c.JSON(http.StatusOK, ai.TextResponse(reply))
}
