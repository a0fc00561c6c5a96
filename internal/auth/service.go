package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mrocha88/fitapp/internal/config"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrDevDisabled  = errors.New("dev tokens disabled")
)

// Service issues and verifies the HS256 tokens used in development.
// Production deployments terminate real authentication upstream.
type Service struct {
	config *config.Config
}

// NewService creates a new auth service.
func NewService(cfg *config.Config) *Service {
	return &Service{config: cfg}
}

// IssueDevToken mints a token for the given user. Only available when
// AUTH_MODE=dev.
func (s *Service) IssueDevToken(userID string) (TokenResponse, error) {
	if s.config.AuthMode != "dev" {
		return TokenResponse{}, ErrDevDisabled
	}
	if strings.TrimSpace(userID) == "" {
		return TokenResponse{}, errors.New("user_id is required")
	}

	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	token, expiresAt, err := s.generateJWT(userID, ttl)
	if err != nil {
		return TokenResponse{}, err
	}

	return TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) generateJWT(userID string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyJWT validates a token and returns its subject.
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok || sub == "" {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
