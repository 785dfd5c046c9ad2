package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", Validation("username is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"auth wrapped", fmt.Errorf("login: %w", ErrAuth), http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"conflict is generic", ErrConflict, http.StatusBadRequest, "REGISTRATION_FAILED"},
		{"persistence", Persistence("replace goals", errors.New("disk full")), http.StatusInternalServerError, "PERSISTENCE_ERROR"},
		{"upstream", &UpstreamError{Op: "forward", Err: errors.New("dial tcp")}, http.StatusInternalServerError, "UPSTREAM_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, got.StatusCode)
			assert.Equal(t, tt.wantCode, got.Code)
		})
	}
}

func TestMapErrorToHTTP_ConflictHidesCause(t *testing.T) {
	got := MapErrorToHTTP(ErrConflict)
	assert.Equal(t, "registration failed", got.ToErrorResponse().Error)
}

func TestPersistence(t *testing.T) {
	assert.Nil(t, Persistence("load", nil))

	cause := errors.New("connection refused")
	err := Persistence("load goals", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "load goals")

	// already wrapped errors are not wrapped twice
	again := Persistence("outer", err)
	assert.Same(t, err, again)
}

func TestUpstreamError_Message(t *testing.T) {
	err := &UpstreamError{Op: "analyze", StatusCode: 503, Err: errors.New("unavailable")}
	assert.Equal(t, "upstream: analyze: status 503: unavailable", err.Error())
}
