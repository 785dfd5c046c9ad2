package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"goaltracker/internal/auth"
	apperrors "goaltracker/internal/errors"
	"goaltracker/internal/logging"
	"goaltracker/internal/model"
	"goaltracker/internal/repository"
)

// AuthResult is what a successful register or login hands back to the client.
type AuthResult struct {
	Username string
	Token    string
}

// AuthService handles registration and password verification.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*AuthResult, error)
	Verify(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*AuthResult, error)
	Logout(ctx context.Context, token *jwt.Token) error
}

type authService struct {
	users      repository.UserRepository
	jwtService *auth.JWTService
	tokens     *auth.TokenStore
	log        logging.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users repository.UserRepository, jwtService *auth.JWTService, tokens *auth.TokenStore, log logging.Logger) AuthService {
	return &authService{
		users:      users,
		jwtService: jwtService,
		tokens:     tokens,
		log:        log,
	}
}

// Register stores a fresh argon2id credential for username. An existing
// username is rejected with errors.ErrConflict and its credential is kept.
func (s *authService) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, apperrors.Validation("username and password are required")
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err == nil && existing != nil {
		s.log.Info(ctx, "registration rejected", "username", username, "reason", "exists")
		return nil, apperrors.ErrConflict
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check user existence: %w", err)
	}

	salt, hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Salt:         salt,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			s.log.Info(ctx, "registration rejected", "username", username, "reason", "exists")
			return nil, apperrors.ErrConflict
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.jwtService.GenerateAccessToken(username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	s.log.Info(ctx, "user registered", "username", username)
	return &AuthResult{Username: username, Token: token}, nil
}

// Verify succeeds only for a known username whose stored key matches password.
func (s *authService) Verify(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return apperrors.Validation("username and password are required")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.ErrAuth
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if !auth.VerifyPassword(password, user.Salt, user.PasswordHash) {
		return apperrors.ErrAuth
	}
	return nil
}

// Login verifies the credential and issues an access token.
func (s *authService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := s.Verify(ctx, username, password); err != nil {
		if errors.Is(err, apperrors.ErrAuth) {
			s.log.Info(ctx, "login failed", "username", username)
		}
		return nil, err
	}

	token, err := s.jwtService.GenerateAccessToken(username)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	return &AuthResult{Username: username, Token: token}, nil
}

// Logout revokes token until it expires.
func (s *authService) Logout(ctx context.Context, token *jwt.Token) error {
	id, exp, ok := auth.TokenID(token)
	if !ok {
		return apperrors.ErrAuth
	}
	s.tokens.Revoke(ctx, id, exp)

	username, _ := auth.Subject(token)
	s.log.Info(ctx, "user logged out", "username", username)
	return nil
}
