package domain

import "time"

// Book represents a collection of poems attributed to a single poet.
// PoetID is required and never changes after creation.
type Book struct {
	Record
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	PoetID          string     `json:"poet_id"`
	Description     string     `json:"description,omitempty"`
	PublicationDate *time.Time `json:"publication_date,omitempty"`
	ViewCount       int64      `json:"view_count"`

	// Denormalized for API responses and search documents.
	PoetName string `json:"poet_name,omitempty"`
	PoetSlug string `json:"poet_slug,omitempty"`
}

// NeedsSlug reports whether a slug must be computed at save time.
func (b *Book) NeedsSlug() bool {
	return b.Slug == ""
}
