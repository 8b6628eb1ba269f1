package domain

import "time"

// Poet represents a poet in the archive.
//
// Slug is assigned exactly once, at first save, and never regenerated even if
// the name changes afterwards. Slugs are stable identifiers: external links
// must not break when an administrator fixes a typo in the display name.
type Poet struct {
	Record
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	Biography string     `json:"biography,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	DeathDate *time.Time `json:"death_date,omitempty"`
	ViewCount int64      `json:"view_count"`
	Featured  bool       `json:"featured,omitempty"`
}

// NeedsSlug reports whether a slug must be computed at save time.
// This is the assignment guard: a non-empty stored slug is never replaced.
func (p *Poet) NeedsSlug() bool {
	return p.Slug == ""
}
