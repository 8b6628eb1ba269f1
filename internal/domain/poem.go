package domain

import "strings"

// Poem represents a single poem within a book.
//
// Slug uniqueness is scoped to the owning book: two poems in different books
// may share a slug, two poems in the same book may not. Order positions the
// poem within its book; it need not be unique or contiguous.
type Poem struct {
	Record
	Title     string `json:"title"`
	Slug      string `json:"slug"`
	BookID    string `json:"book_id"`
	Content   string `json:"content"`
	Order     int    `json:"order"`
	WordCount int    `json:"word_count"`
	LineCount int    `json:"line_count"`
	ViewCount int64  `json:"view_count"`

	// Denormalized for API responses and search documents.
	BookTitle string `json:"book_title,omitempty"`
	BookSlug  string `json:"book_slug,omitempty"`
	PoetName  string `json:"poet_name,omitempty"`
	PoetSlug  string `json:"poet_slug,omitempty"`
}

// NeedsSlug reports whether a slug must be computed at save time.
func (p *Poem) NeedsSlug() bool {
	return p.Slug == ""
}

// Recount recomputes WordCount and LineCount from Content.
// Runs on every save regardless of whether the content changed:
// words are whitespace-separated tokens, lines exclude blank lines.
func (p *Poem) Recount() {
	p.WordCount = len(strings.Fields(p.Content))

	lines := 0
	for _, line := range strings.Split(p.Content, "\n") {
		if strings.TrimSpace(line) != "" {
			lines++
		}
	}
	p.LineCount = lines
}
