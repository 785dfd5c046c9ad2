package handler

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"goaltracker/internal/auth"
	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/model"
	"goaltracker/internal/service"
)

// GoalHandler handles the goal sync and view endpoints.
type GoalHandler struct {
	goalService service.GoalService
	now         func() time.Time
}

// NewGoalHandler creates a new goal handler.
func NewGoalHandler(goalService service.GoalService) *GoalHandler {
	return &GoalHandler{goalService: goalService, now: time.Now}
}

// SaveGoalsRequest replaces a user's whole goal collection.
type SaveGoalsRequest struct {
	Username string       `json:"username"`
	Goals    []model.Goal `json:"goals"`
}

// StatusResponse acknowledges a write.
type StatusResponse struct {
	Status string `json:"status"`
}

// ListGoals godoc
// @Summary List a user's goals
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param username query string false "Username; without it the list is empty"
// @Success 200 {array} model.Goal
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /goals [get]
func (h *GoalHandler) ListGoals(c echo.Context) error {
	username, err := owner(c, c.QueryParam("username"))
	if err != nil {
		return mapError(err)
	}

	list, err := h.goalService.Load(c.Request().Context(), username)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, list)
}

// SaveGoals godoc
// @Summary Replace a user's goals
// @Tags goals
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SaveGoalsRequest true "Full goal collection"
// @Success 200 {object} StatusResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /goals [post]
func (h *GoalHandler) SaveGoals(c echo.Context) error {
	var req SaveGoalsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if req.Username == "" || req.Goals == nil {
		return mapError(apperrors.Validation("username and goals are required"))
	}

	username, err := owner(c, req.Username)
	if err != nil {
		return mapError(err)
	}
	if err := h.goalService.Replace(c.Request().Context(), username, req.Goals); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "success"})
}

// Today godoc
// @Summary Pending habits and subtasks for one day
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param username query string true "Username"
// @Param date query string false "Day as YYYY-MM-DD, default today (UTC)"
// @Success 200 {object} goals.TodayView
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /goals/today [get]
func (h *GoalHandler) Today(c echo.Context) error {
	username, err := owner(c, c.QueryParam("username"))
	if err != nil {
		return mapError(err)
	}
	day, err := h.asOf(c.QueryParam("date"))
	if err != nil {
		return mapError(err)
	}

	view, err := h.goalService.Today(c.Request().Context(), username, day)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// Stats godoc
// @Summary Completion stats of every habit goal
// @Tags goals
// @Produce json
// @Security BearerAuth
// @Param username query string true "Username"
// @Param date query string false "Day as YYYY-MM-DD, default today (UTC)"
// @Success 200 {array} goals.GoalStats
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /goals/stats [get]
func (h *GoalHandler) Stats(c echo.Context) error {
	username, err := owner(c, c.QueryParam("username"))
	if err != nil {
		return mapError(err)
	}
	asOf, err := h.asOf(c.QueryParam("date"))
	if err != nil {
		return mapError(err)
	}

	stats, err := h.goalService.Stats(c.Request().Context(), username, asOf)
	if err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, stats)
}

// asOf resolves the date parameter. A given day is taken at its last
// second in UTC; no day means now.
func (h *GoalHandler) asOf(date string) (time.Time, error) {
	if date == "" {
		return h.now().UTC(), nil
	}
	day, err := time.Parse(model.DayLayout, date)
	if err != nil {
		return time.Time{}, apperrors.Validation("date must be YYYY-MM-DD")
	}
	return day.Add(24*time.Hour - time.Second), nil
}

// owner resolves whose goals a request addresses. Without a bearer token the
// username is taken as given. With one, a missing username defaults to the
// token subject and a different one is forbidden.
func owner(c echo.Context, username string) (string, error) {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return username, nil
	}
	subject, ok := auth.Subject(token)
	if !ok {
		return "", apperrors.ErrForbidden
	}
	if username == "" {
		return subject, nil
	}
	if username != subject {
		return "", apperrors.ErrForbidden
	}
	return username, nil
}
