package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string   // User's search query
	Types []string // Document types to include (empty = all)

	// Filters. Combine with AND; the text query matches any of its
	// fields (OR).
	PoetSlug string // Restrict to one poet's catalog
	BookSlug string // Restrict to one book's poems

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "name", "recent", "popular"
	SortOrder string // "asc", "desc"

	// Options
	Highlight bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:     20,
		Offset:    0,
		SortBy:    "relevance",
		SortOrder: "desc",
		Highlight: true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID         string            `json:"id"`
	Type       DocType           `json:"type"`
	Score      float64           `json:"score"`
	Name       string            `json:"name"`
	PoetName   string            `json:"poet_name,omitempty"`
	BookTitle  string            `json:"book_title,omitempty"`
	Slug       string            `json:"slug"`
	PoetSlug   string            `json:"poet_slug,omitempty"`
	BookSlug   string            `json:"book_slug,omitempty"`
	Highlights map[string]string `json:"highlights,omitempty"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	searchQuery := buildSearchQuery(params)

	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	addSorting(searchRequest, params)

	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("content")
		searchRequest.Highlight.AddField("poet_name")
	}

	searchRequest.Fields = []string{
		"id", "type", "name", "poet_name", "book_title",
		"slug", "poet_slug", "book_slug",
	}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		if t, ok := hit.Fields["type"].(string); ok {
			searchHit.Type = DocType(t)
		}
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}
		if pn, ok := hit.Fields["poet_name"].(string); ok {
			searchHit.PoetName = pn
		}
		if bt, ok := hit.Fields["book_title"].(string); ok {
			searchHit.BookTitle = bt
		}
		if sl, ok := hit.Fields["slug"].(string); ok {
			searchHit.Slug = sl
		}
		if ps, ok := hit.Fields["poet_slug"].(string); ok {
			searchHit.PoetSlug = ps
		}
		if bs, ok := hit.Fields["book_slug"].(string); ok {
			searchHit.BookSlug = bs
		}

		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
//
// The text query fans out over poem titles, poem bodies, book titles, and
// poet names, so searching a poet returns their poems as well as their
// profile. Slug filters then narrow the candidate set with AND.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if params.Query != "" {
		textQueries := []query.Query{}

		// Name/title match with highest boost.
		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		// Poem body.
		contentMatch := bleve.NewMatchQuery(params.Query)
		contentMatch.SetField("content")
		textQueries = append(textQueries, contentMatch)

		// Denormalized poet name and book title.
		poetMatch := bleve.NewMatchQuery(params.Query)
		poetMatch.SetField("poet_name")
		poetMatch.SetBoost(2.0)
		textQueries = append(textQueries, poetMatch)

		bookMatch := bleve.NewMatchQuery(params.Query)
		bookMatch.SetField("book_title")
		bookMatch.SetBoost(1.5)
		textQueries = append(textQueries, bookMatch)

		// Biography and description carry lower weight.
		bioMatch := bleve.NewMatchQuery(params.Query)
		bioMatch.SetField("biography")
		bioMatch.SetBoost(0.5)
		textQueries = append(textQueries, bioMatch)

		descMatch := bleve.NewMatchQuery(params.Query)
		descMatch.SetField("description")
		descMatch.SetBoost(0.5)
		textQueries = append(textQueries, descMatch)

		// Fuzzy matching for typo tolerance on name.
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars).
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Type filter (OR across requested types).
	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(t)
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	// Slug filters (exact term matches on keyword fields).
	if params.PoetSlug != "" {
		pq := bleve.NewTermQuery(params.PoetSlug)
		pq.SetField("poet_slug")
		queries = append(queries, pq)
	}
	if params.BookSlug != "" {
		bq := bleve.NewTermQuery(params.BookSlug)
		bq.SetField("book_slug")
		queries = append(queries, bq)
	}

	// Combine all queries with AND.
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "name", "title":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-name"})
		} else {
			req.SortBy([]string{"name"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	case "popular":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"view_count"})
		} else {
			req.SortBy([]string{"-view_count"})
		}
	default:
		// Relevance (score) is default.
		req.SortBy([]string{"-_score"})
	}
}
