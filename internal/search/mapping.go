package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// Text fields use the standard analyzer rather than a language-specific one:
// the catalog is mostly Tajik Cyrillic with some Persian script, and English
// stemming would only mangle transliterated terms. The standard analyzer
// gives Unicode tokenization and lowercasing, which is what we need.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name - primary search target for all three types.
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = standard.Name
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Poem body - searchable but not stored (bodies can be long).
	contentFieldMapping := bleve.NewTextFieldMapping()
	contentFieldMapping.Analyzer = standard.Name
	contentFieldMapping.Store = false
	contentFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("content", contentFieldMapping)

	// Poet biography.
	bioFieldMapping := bleve.NewTextFieldMapping()
	bioFieldMapping.Analyzer = standard.Name
	bioFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("biography", bioFieldMapping)

	// Book description.
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = standard.Name
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Denormalized poet name on book and poem documents.
	poetNameFieldMapping := bleve.NewTextFieldMapping()
	poetNameFieldMapping.Analyzer = standard.Name
	poetNameFieldMapping.Store = true
	poetNameFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("poet_name", poetNameFieldMapping)

	// Denormalized book title on poem documents.
	bookTitleFieldMapping := bleve.NewTextFieldMapping()
	bookTitleFieldMapping.Analyzer = standard.Name
	bookTitleFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("book_title", bookTitleFieldMapping)

	// --- Keyword fields (exact match, filterable) ---

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Slugs keep their hyphens intact under the keyword analyzer.
	slugFieldMapping := bleve.NewTextFieldMapping()
	slugFieldMapping.Analyzer = keyword.Name
	slugFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("slug", slugFieldMapping)

	poetSlugFieldMapping := bleve.NewTextFieldMapping()
	poetSlugFieldMapping.Analyzer = keyword.Name
	poetSlugFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("poet_slug", poetSlugFieldMapping)

	bookSlugFieldMapping := bleve.NewTextFieldMapping()
	bookSlugFieldMapping.Analyzer = keyword.Name
	bookSlugFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("book_slug", bookSlugFieldMapping)

	// --- Numeric fields (sorting) ---

	viewCountFieldMapping := bleve.NewNumericFieldMapping()
	viewCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("view_count", viewCountFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
