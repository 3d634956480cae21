// Package app holds the application services and business logic.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"opsdash/internal/domain"
	"opsdash/internal/password"
	"opsdash/internal/session"
)

// ErrInvalidCredentials covers every login failure the client is allowed
// to see. An unknown user, an ambiguous user row and a wrong password are
// deliberately indistinguishable in the response; the distinction lives
// only in the operator log.
var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles authentication and session management. It is the
// only component that creates sessions, and Logout is the only direct
// destroyer.
type AuthService struct {
	users    domain.UserRepository
	sessions session.Store
	log      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions session.Store, log *slog.Logger) *AuthService {
	return &AuthService{users: users, sessions: sessions, log: log}
}

// Login verifies credentials and establishes a fresh session carrying the
// authenticated-identity marker. It returns the opaque cookie value for
// the client and the stored user name, which is the canonical form the
// session carries. Credential failures collapse into
// ErrInvalidCredentials; anything else is a backing-store or hashing
// failure and surfaces as-is.
func (s *AuthService) Login(ctx context.Context, name, pass string) (string, string, error) {
	user, err := s.users.GetByName(ctx, name)
	if err != nil {
		return "", "", fmt.Errorf("login: user lookup: %w", err)
	}
	if user == nil {
		s.log.Info("login rejected", "user", name)
		return "", "", ErrInvalidCredentials
	}
	if !password.Verify(pass, user.PasswordHash) {
		s.log.Info("login rejected", "user", name)
		return "", "", ErrInvalidCredentials
	}

	sess, err := session.New()
	if err != nil {
		return "", "", fmt.Errorf("login: %w", err)
	}
	if err := sess.SetIdentity(user.Name); err != nil {
		return "", "", fmt.Errorf("login: %w", err)
	}
	cookieValue, err := s.sessions.Store(ctx, sess)
	if err != nil {
		return "", "", fmt.Errorf("login: store session: %w", err)
	}

	s.log.Info("login ok", "user", user.Name)
	return cookieValue, user.Name, nil
}

// Logout destroys the given session. A nil session is a no-op: logging
// out while not logged in succeeds.
func (s *AuthService) Logout(ctx context.Context, sess *session.Session) error {
	if sess == nil {
		return nil
	}
	if err := s.sessions.Destroy(ctx, sess); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if name, ok := sess.Identity(); ok {
		s.log.Info("logout", "user", name)
	}
	return nil
}

// ProvisionUser creates or fully replaces the credential row for name.
// Used at bootstrap and by administrative tooling; there is no
// self-service registration.
func (s *AuthService) ProvisionUser(ctx context.Context, name, pass string) error {
	hash, err := password.Hash(pass)
	if err != nil {
		return fmt.Errorf("provision user %s: %w", name, err)
	}
	if err := s.users.Upsert(ctx, name, hash); err != nil {
		return fmt.Errorf("provision user %s: %w", name, err)
	}
	return nil
}
