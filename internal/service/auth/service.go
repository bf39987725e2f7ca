// Package auth implements login sessions and password hashing.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/mamadbah2/herdbook/internal/apperr"
	"github.com/mamadbah2/herdbook/internal/domain/models"
	"github.com/mamadbah2/herdbook/internal/repository/session"
	"github.com/mamadbah2/herdbook/internal/repository/sqldb"
)

const invalidCredentials = "Invalid credentials"

// Service logs users in and resolves session tokens.
type Service struct {
	users    *sqldb.UserRepository
	sessions session.Store
	ttl      time.Duration
	logger   *zap.Logger
}

// NewService wires the auth service.
func NewService(users *sqldb.UserRepository, sessions session.Store, ttl time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{users: users, sessions: sessions, ttl: ttl, logger: logger}
}

// TTL is the lifetime of new sessions.
func (s *Service) TTL() time.Duration { return s.ttl }

// Login checks credentials and opens a session. It returns the session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, models.Principal, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", models.Principal{}, apperr.Unauthorized(invalidCredentials)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if sqldb.IsNotFound(err) {
		return "", models.Principal{}, apperr.Unauthorized(invalidCredentials)
	}
	if err != nil {
		return "", models.Principal{}, apperr.Internal("Internal server error", err)
	}

	if err := ComparePassword(user.Password, password); err != nil {
		s.logger.Info("login rejected", zap.String("email", email))
		return "", models.Principal{}, apperr.Unauthorized(invalidCredentials)
	}

	token := uuid.NewString()
	principal := user.Principal()
	if err := s.sessions.Save(ctx, token, principal, s.ttl); err != nil {
		return "", models.Principal{}, apperr.Internal("Internal server error", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return token, principal, nil
}

// Logout discards the session behind token.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, token); err != nil {
		return apperr.Internal("Failed to logout", err)
	}
	return nil
}

// Resolve maps a session token to its principal. The user is reloaded on
// every call so role changes and deletions apply to open sessions.
func (s *Service) Resolve(ctx context.Context, token string) (models.Principal, error) {
	if token == "" {
		return models.Principal{}, apperr.Unauthorized("Unauthorized")
	}
	p, err := s.sessions.Get(ctx, token)
	if errors.Is(err, session.ErrNotFound) {
		return models.Principal{}, apperr.Unauthorized("Unauthorized")
	}
	if err != nil {
		return models.Principal{}, apperr.Internal("Failed to load session", err)
	}

	user, err := s.users.Get(ctx, p.UserID)
	if sqldb.IsNotFound(err) {
		if err := s.sessions.Delete(ctx, token); err != nil {
			s.logger.Warn("failed to drop orphan session", zap.String("user_id", p.UserID), zap.Error(err))
		}
		return models.Principal{}, apperr.Unauthorized("Unauthorized")
	}
	if err != nil {
		return models.Principal{}, apperr.Internal("Failed to load session", err)
	}
	return user.Principal(), nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// ComparePassword checks password against a bcrypt hash.
func ComparePassword(hashed, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password))
}
