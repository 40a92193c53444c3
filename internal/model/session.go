package model

import "time"

// Session is a server-issued login capability: possession of the ID is
// sufficient to authenticate as the owning user until the absolute expiry.
// IDs come from a cryptographically secure random source (32 bytes, URL-safe
// base64).
type Session struct {
	ID        string    `json:"id"`
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session's absolute expiry has passed.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
