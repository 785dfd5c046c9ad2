package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessTokenExpiry is the duration for which access tokens are valid.
const AccessTokenExpiry = 24 * time.Hour

// JWTService handles JWT token generation and validation.
type JWTService struct {
	secret []byte
	now    func() time.Time
}

// NewJWTService creates a new JWT service with the given secret.
func NewJWTService(secret string) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// GenerateAccessToken issues a token whose subject is username.
func (s *JWTService) GenerateAccessToken(username string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		ID:        uuid.New().String(),
		Subject:   username,
		ExpiresAt: jwt.NewNumericDate(now.Add(AccessTokenExpiry)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ParseToken verifies the signature and time claims of tokenString and
// requires a subject. The claims are *jwt.RegisteredClaims.
func (s *JWTService) ParseToken(tokenString string) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return token, nil
}

// ValidateToken validates a JWT token and returns the username it was issued to.
func (s *JWTService) ValidateToken(tokenString string) (string, error) {
	token, err := s.ParseToken(tokenString)
	if err != nil {
		return "", err
	}
	return token.Claims.(*jwt.RegisteredClaims).Subject, nil
}

// TokenID returns the JTI and expiry of a token parsed by ParseToken.
func TokenID(token *jwt.Token) (string, time.Time, bool) {
	if token == nil {
		return "", time.Time{}, false
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.ID == "" || claims.ExpiresAt == nil {
		return "", time.Time{}, false
	}
	return claims.ID, claims.ExpiresAt.Time, true
}

// Subject extracts the username from a token parsed by the echo-jwt middleware.
func Subject(token *jwt.Token) (string, bool) {
	if token == nil || !token.Valid {
		return "", false
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", false
	}
	return sub, true
}
