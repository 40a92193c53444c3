package repository

import (
	"context"
	"errors"
	"fmt"

	"deuda_tracker/internal/model"

	"github.com/jackc/pgx/v5"
)

// SessionRepository defines operations for session data. Expiry is enforced
// by the auth service, which deletes expired sessions on first lookup.
type SessionRepository interface {
	Create(ctx context.Context, session *model.Session) error
	FindByID(ctx context.Context, id string) (*model.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Create inserts a new session into the database
func (r *sessionRepository) Create(ctx context.Context, session *model.Session) error {
	sql := `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`
	if _, err := r.db.Exec(ctx, sql, session.ID, session.UserID, session.ExpiresAt); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID retrieves a session by its token. Not found is (nil, nil).
func (r *sessionRepository) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	sql := `SELECT id, user_id, expires_at FROM sessions WHERE id = $1`
	err := r.db.QueryRow(ctx, sql, id).Scan(&session.ID, &session.UserID, &session.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find session: %w", err)
	}
	return session, nil
}

// Delete removes a session. Deleting a session that does not exist (or was
// already deleted by a concurrent request) is a no-op, not an error.
func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	sql := `DELETE FROM sessions WHERE id = $1`
	if _, err := r.db.Exec(ctx, sql, id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
