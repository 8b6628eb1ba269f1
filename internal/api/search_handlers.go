package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/search"
)

// handleSearch runs a full-text search over the catalog.
// Query params: q, type (comma-separated: poet,book,poem), poet, book,
// limit, offset, sort (relevance, name, recent, popular), order,
// highlight (default true).
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	params := search.DefaultSearchParams()
	params.Query = q.Get("q")
	params.PoetSlug = q.Get("poet")
	params.BookSlug = q.Get("book")

	if types := q.Get("type"); types != "" {
		for _, t := range strings.Split(types, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				params.Types = append(params.Types, t)
			}
		}
	}

	if limitStr := q.Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}
	if offsetStr := q.Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil {
			params.Offset = offset
		}
	}

	if sortBy := q.Get("sort"); sortBy != "" {
		params.SortBy = sortBy
	}
	if order := q.Get("order"); order != "" {
		params.SortOrder = order
	}
	if q.Get("highlight") == "false" {
		params.Highlight = false
	}

	result, err := s.searchService.Search(r.Context(), params)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleReindex rebuilds the search index from the store. Admin only.
func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if err := s.searchService.ReindexAll(r.Context()); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	count, err := s.searchService.DocumentCount()
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]uint64{"documents": count}, s.logger)
}
