package domain

import "time"

// TargetType discriminates which entity a favorite points at.
type TargetType string

// Favoritable entity types.
const (
	TargetPoet TargetType = "poet"
	TargetBook TargetType = "book"
	TargetPoem TargetType = "poem"
)

// Valid reports whether t names a favoritable entity type.
func (t TargetType) Valid() bool {
	switch t {
	case TargetPoet, TargetBook, TargetPoem:
		return true
	}
	return false
}

// Favorite is a user-specific bookmark referencing a poet, book, or poem.
// The (UserID, TargetType, TargetID) triple is unique per user; toggling an
// existing favorite removes it.
//
// The target reference is polymorphic and carries no foreign key to the
// target table, so the store validates target existence at toggle time.
type Favorite struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TargetType TargetType `json:"target_type"`
	TargetID   string     `json:"target_id"`
	CreatedAt  time.Time  `json:"created_at"`
}
