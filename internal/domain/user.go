package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access (catalog curation).
	RoleAdmin Role = "admin"
	// RoleReader grants standard reading access.
	RoleReader Role = "reader"
)

// User represents an authenticated account in the archive.
// Administrators curate the catalog; readers favorite poems and track
// reading history.
type User struct {
	Record
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Stored hashed, never serialized
	DisplayName  string    `json:"display_name"`
	IsRoot       bool      `json:"is_root"`
	Role         Role      `json:"role"`
	LastLoginAt  time.Time `json:"last_login_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}
