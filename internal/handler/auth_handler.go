package handler

import (
	"errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/logging"
	"goaltracker/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
	log         logging.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService, log logging.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Success  bool   `json:"success"`
	Username string `json:"username"`
	Token    string `json:"token"`
}

// Register godoc
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Router /register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "username and password are required",
			Code:  "VALIDATION_ERROR",
		})
	}

	ctx := c.Request().Context()
	result, err := h.authService.Register(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			return mapError(err)
		}
		// every other cause looks the same to the client
		if !errors.Is(err, apperrors.ErrConflict) {
			h.log.Error(ctx, "registration failed", "username", req.Username, "error", err)
		}
		return mapError(apperrors.ErrConflict)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Success:  true,
		Username: result.Username,
		Token:    result.Token,
	})
}

// Login godoc
// @Summary Login user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req CredentialsRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "invalid request body",
			Code:  "VALIDATION_ERROR",
		})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
			Error: "username and password are required",
			Code:  "VALIDATION_ERROR",
		})
	}

	ctx := c.Request().Context()
	result, err := h.authService.Login(ctx, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, apperrors.ErrAuth) {
			h.log.Error(ctx, "login failed", "username", req.Username, "error", err)
		}
		return mapError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Success:  true,
		Username: result.Username,
		Token:    result.Token,
	})
}

// Logout godoc
// @Summary Revoke the bearer token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} StatusResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	token, _ := c.Get("user").(*jwt.Token)
	if err := h.authService.Logout(c.Request().Context(), token); err != nil {
		return mapError(err)
	}
	return c.JSON(http.StatusOK, StatusResponse{Status: "success"})
}

// mapError converts a domain error into the JSON error response.
func mapError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
