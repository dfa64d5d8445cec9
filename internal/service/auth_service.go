package service

import (
	"crypto/subtle"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/shadow-boy/short-uri-project/internal/jwt"
	"github.com/shadow-boy/short-uri-project/internal/models"
)

// Fixed identity of the single administrative principal.
const (
	AdminSubject = "admin"
	AdminRole    = "admin"
)

// AuthService defines the interface for authentication business logic
type AuthService interface {
	Login(username, password string) (*models.AuthResponse, error)
	// Authenticate verifies a bearer token and returns the principal id.
	// Every failure mode collapses to ErrUnauthorized.
	Authenticate(token string) (string, error)
}

type authService struct {
	adminUsername     string
	adminPasswordHash []byte
	tokens            *jwt.TokenService
}

// NewAuthService creates an auth service for the configured admin identity.
// The plain configured password is bcrypt-hashed once up front so login
// always goes through a constant-cost compare.
func NewAuthService(adminUsername, adminPassword string, tokens *jwt.TokenService) (AuthService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}
	return &authService{
		adminUsername:     adminUsername,
		adminPasswordHash: hash,
		tokens:            tokens,
	}, nil
}

// Login checks the credentials against the single admin identity and issues
// a signed, time-limited bearer token.
func (s *authService) Login(username, password string) (*models.AuthResponse, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.adminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword(s.adminPasswordHash, []byte(password))
	if !usernameOK || passwordErr != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Generate(AdminSubject, s.adminUsername, AdminRole)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &models.AuthResponse{
		Token: token,
		User: models.AuthUser{
			Username: s.adminUsername,
			Role:     AdminRole,
		},
	}, nil
}

// Authenticate verifies signature and expiry of a bearer token.
func (s *authService) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}
