// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes the database
//
// Services take repository interfaces, never a concrete store, so tests pass
// in-memory fakes and main.go picks SQLite or PostgreSQL.
//
// Services return apperror values and never import net/http. The handler
// package owns the mapping to status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/game-portal/internal/apperror"
	"github.com/sakif/game-portal/internal/auth"
	"github.com/sakif/game-portal/internal/metrics"
	"github.com/sakif/game-portal/internal/model"
	"github.com/sakif/game-portal/internal/repository"
)

// AuthService handles registration and the session lifecycle.
//
// It is the only caller of SessionRegistry.Create and SessionRegistry.Revoke.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users    repository.UserRepository → credential store
//   - sessions *auth.SessionRegistry     → token issuance and revocation
//   - metrics  *metrics.Metrics          → auth event counters (may be nil)
//   - logger   *slog.Logger              → structured logging
type AuthService struct {
	users    repository.UserRepository
	sessions *auth.SessionRegistry
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	sessions *auth.SessionRegistry,
	m *metrics.Metrics,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

// LoginResult bundles what the handler needs to answer a successful login:
// the token for the cookie and the identity it resolves to.
type LoginResult struct {
	Token    string
	Identity auth.Identity
}

// Register creates a regular (non-admin) account.
//
// username, email and password are required; a value made only of whitespace
// counts as missing. Values are stored exactly as given. A duplicate
// username or email is rejected with apperror.ErrConflict and nothing is
// written.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (int64, error) {
	for _, f := range []struct{ name, value string }{
		{"username", username},
		{"email", email},
		{"password", password},
	} {
		if strings.TrimSpace(f.value) == "" {
			s.metrics.RecordAuth(metrics.EventRegister, metrics.ResultRejected)
			return 0, apperror.ValidationFailed(f.name, "Faltan campos obligatorios")
		}
	}

	user := &model.User{
		Username: username,
		Email:    email,
		Password: password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			s.metrics.RecordAuth(metrics.EventRegister, metrics.ResultRejected)
			s.logger.Info("registration rejected: duplicate account", slog.String("username", username))
			return 0, err
		}
		s.metrics.RecordAuth(metrics.EventRegister, metrics.ResultError)
		s.logger.Error("failed to register user",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("registering user: %w", err)
	}

	s.metrics.RecordAuth(metrics.EventRegister, metrics.ResultSuccess)
	s.logger.Info("user registered",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)
	return user.ID, nil
}

// Login checks the credentials and opens a session.
//
// The password is compared verbatim by the store. Any mismatch, including
// an unknown username or empty fields, is reported the same way so callers
// cannot probe which usernames exist.
//
// The session carries the user's admin flag as it is right now. Promoting or
// demoting the user later does not change sessions that are already open.
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" || password == "" {
		s.metrics.RecordAuth(metrics.EventLogin, metrics.ResultRejected)
		return nil, apperror.Unauthenticated("Credenciales incorrectas")
	}

	user, err := s.users.GetByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			s.metrics.RecordAuth(metrics.EventLogin, metrics.ResultRejected)
			s.logger.Info("login rejected", slog.String("username", username))
			return nil, apperror.Unauthenticated("Credenciales incorrectas")
		}
		s.metrics.RecordAuth(metrics.EventLogin, metrics.ResultError)
		s.logger.Error("failed to look up credentials",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("logging in: %w", err)
	}

	token, err := s.sessions.Create(user.ID, user.IsAdmin)
	if err != nil {
		s.metrics.RecordAuth(metrics.EventLogin, metrics.ResultError)
		return nil, fmt.Errorf("logging in: %w", err)
	}
	identity, _ := s.sessions.Resolve(token)

	s.metrics.RecordAuth(metrics.EventLogin, metrics.ResultSuccess)
	s.logger.Info("user logged in",
		slog.Int64("user_id", user.ID),
		slog.Bool("is_admin", user.IsAdmin),
		slog.String("session", identity.Handle),
	)
	return &LoginResult{Token: token, Identity: identity}, nil
}

// Logout revokes the session behind token. Unknown tokens are ignored.
func (s *AuthService) Logout(token string) {
	if id, ok := s.sessions.Resolve(token); ok {
		s.logger.Info("user logged out",
			slog.Int64("user_id", id.UserID),
			slog.String("session", id.Handle),
		)
	}
	s.sessions.Revoke(token)
	s.metrics.RecordAuth(metrics.EventLogout, metrics.ResultSuccess)
}
