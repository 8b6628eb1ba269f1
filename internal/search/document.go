// Package search provides full-text search over the archive using Bleve.
// Poets, books, and poems are indexed as one unified document type with
// type discrimination, so a single query can reach the whole catalog.
package search

import (
	"github.com/guftaho/guftaho-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypePoet DocType = "poet"
	DocTypeBook DocType = "book"
	DocTypePoem DocType = "poem"
)

// SearchDocument is the unified document structure for the Bleve index.
//
// Poet name and book title are denormalized into poem documents so one
// query covers poem title, poem content, book title, and poet name without
// join-time lookups.
type SearchDocument struct {
	// Identity
	ID   string  `json:"id"`
	Type DocType `json:"type"`

	// Primary searchable text: poet name, book title, or poem title.
	Name string `json:"name"`

	// Poem body. Searchable, not stored.
	Content string `json:"content,omitempty"`

	// Poet biography / book description.
	Biography   string `json:"biography,omitempty"`
	Description string `json:"description,omitempty"`

	// Denormalized parent names for poem and book documents.
	PoetName  string `json:"poet_name,omitempty"`
	BookTitle string `json:"book_title,omitempty"`

	// Slugs for exact filtering and result URLs.
	Slug     string `json:"slug"`
	PoetSlug string `json:"poet_slug,omitempty"`
	BookSlug string `json:"book_slug,omitempty"`

	// View counter for popularity sorting.
	ViewCount int64 `json:"view_count,omitempty"`

	// Timestamps for recency sorting. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"type":       string(d.Type),
		"name":       d.Name,
		"slug":       d.Slug,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	if d.Content != "" {
		m["content"] = d.Content
	}
	if d.Biography != "" {
		m["biography"] = d.Biography
	}
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.PoetName != "" {
		m["poet_name"] = d.PoetName
	}
	if d.BookTitle != "" {
		m["book_title"] = d.BookTitle
	}
	if d.PoetSlug != "" {
		m["poet_slug"] = d.PoetSlug
	}
	if d.BookSlug != "" {
		m["book_slug"] = d.BookSlug
	}
	if d.ViewCount > 0 {
		m["view_count"] = d.ViewCount
	}

	return m
}

// PoetToSearchDocument converts a domain Poet to a SearchDocument.
func PoetToSearchDocument(p *domain.Poet) *SearchDocument {
	return &SearchDocument{
		ID:        p.ID,
		Type:      DocTypePoet,
		Name:      p.Name,
		Biography: p.Biography,
		Slug:      p.Slug,
		PoetSlug:  p.Slug,
		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
}

// BookToSearchDocument converts a domain Book to a SearchDocument.
// The book must carry its denormalized poet fields.
func BookToSearchDocument(b *domain.Book) *SearchDocument {
	return &SearchDocument{
		ID:          b.ID,
		Type:        DocTypeBook,
		Name:        b.Title,
		Description: b.Description,
		PoetName:    b.PoetName,
		Slug:        b.Slug,
		PoetSlug:    b.PoetSlug,
		BookSlug:    b.Slug,
		ViewCount:   b.ViewCount,
		CreatedAt:   b.CreatedAt.UnixMilli(),
		UpdatedAt:   b.UpdatedAt.UnixMilli(),
	}
}

// PoemToSearchDocument converts a domain Poem to a SearchDocument.
// The poem must carry its denormalized book and poet fields.
func PoemToSearchDocument(p *domain.Poem) *SearchDocument {
	return &SearchDocument{
		ID:        p.ID,
		Type:      DocTypePoem,
		Name:      p.Title,
		Content:   p.Content,
		PoetName:  p.PoetName,
		BookTitle: p.BookTitle,
		Slug:      p.Slug,
		PoetSlug:  p.PoetSlug,
		BookSlug:  p.BookSlug,
		ViewCount: p.ViewCount,
		CreatedAt: p.CreatedAt.UnixMilli(),
		UpdatedAt: p.UpdatedAt.UnixMilli(),
	}
}
