package model

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a user in the system. Users are never hard-deleted; they
// are deactivated via IsActive instead.
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"` // stored lowercase, matched case-insensitively
	PasswordHash string    `json:"-"`        // Do not expose password hash in JSON responses
	Role         string    `json:"role"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthUser is the identity resolved from a session cookie, carried through
// the request context.
type AuthUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	SessionID string `json:"-"` // needed by logout
}
