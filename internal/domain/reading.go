package domain

import "time"

// ReadingHistory records that a user read (part of) a poem.
// One row per (user, poem); repeated reads refresh LastReadAt and progress.
type ReadingHistory struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	PoemID     string    `json:"poem_id"`
	Progress   int       `json:"progress"` // 0-100 percent
	LastReadAt time.Time `json:"last_read_at"`
	CreatedAt  time.Time `json:"created_at"`

	// Denormalized for API responses.
	PoemTitle string `json:"poem_title,omitempty"`
	PoemSlug  string `json:"poem_slug,omitempty"`
	BookSlug  string `json:"book_slug,omitempty"`
}

// ClampProgress bounds a raw progress value to the valid 0-100 range.
func ClampProgress(progress int) int {
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}
