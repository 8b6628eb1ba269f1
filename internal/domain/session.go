package domain

import "time"

// Session represents a refresh-token session for an authenticated user.
// Only the SHA-256 hash of the refresh token is stored.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
}

// IsExpired reports whether the session can no longer be refreshed.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
