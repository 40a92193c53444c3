package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"deuda_tracker/internal/model"
	"deuda_tracker/internal/repository"
	"deuda_tracker/internal/utils"
)

// SessionTTL is the absolute lifetime of a login session. Expiry is not
// sliding: the timestamp is fixed at creation.
const SessionTTL = 30 * 24 * time.Hour

// AuthService provides authentication related services: password
// verification, session issue/revocation, and resolving a session cookie
// back to an active user.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*model.User, *model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	Resolve(ctx context.Context, sessionID string) (*model.AuthUser, error)
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
}

// NewAuthService creates a new AuthService
func NewAuthService(users repository.UserRepository, sessions repository.SessionRepository) AuthService {
	return &authService{users: users, sessions: sessions}
}

// Login verifies credentials and issues a session. Unknown username,
// inactive user and wrong password all come back as ErrInvalidCredentials so
// callers cannot enumerate users.
func (s *authService) Login(ctx context.Context, username, password string) (*model.User, *model.Session, error) {
	user, err := s.users.FindByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil || !user.IsActive || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, nil, ErrInvalidCredentials
	}

	token, err := utils.NewSessionToken()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate session token: %w", err)
	}
	session := &model.Session{
		ID:        token,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(SessionTTL),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, nil, fmt.Errorf("failed to create session: %w", err)
	}
	return user, session, nil
}

// Logout destroys the session. Destroying a session that never existed is a
// no-op.
func (s *authService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.sessions.Delete(ctx, sessionID)
}

// Resolve turns a session id into the authenticated user, or (nil, nil) for
// a definitive anonymous result. An expired session is deleted on first
// sight; sessions of deactivated users are rejected here without being
// revoked. At most two lookups: the session, then its user.
func (s *authService) Resolve(ctx context.Context, sessionID string) (*model.AuthUser, error) {
	if sessionID == "" {
		return nil, nil
	}
	session, err := s.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, nil
	}
	if session.Expired(time.Now()) {
		if err := s.sessions.Delete(ctx, session.ID); err != nil {
			return nil, fmt.Errorf("failed to delete expired session: %w", err)
		}
		return nil, nil
	}

	user, err := s.users.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return &model.AuthUser{
		ID:        user.ID,
		Username:  user.Username,
		Role:      user.Role,
		SessionID: session.ID,
	}, nil
}
