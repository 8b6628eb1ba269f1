package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/service"
	"github.com/guftaho/guftaho-server/internal/store"
)

// handleListPoets returns a paginated poet listing.
// Query params: q (substring filter), featured_first, limit, cursor.
func (s *Server) handleListPoets(w http.ResponseWriter, r *http.Request) {
	filter := store.PoetFilter{
		Query:         r.URL.Query().Get("q"),
		FeaturedFirst: r.URL.Query().Get("featured_first") == "true",
	}

	result, err := s.poetService.ListPoets(r.Context(), filter, parsePaginationParams(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleGetPoet returns one poet by slug and counts the view.
func (s *Server) handleGetPoet(w http.ResponseWriter, r *http.Request) {
	poet, err := s.poetService.GetPoetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, poet, s.logger)
}

// handleGetPoetBooks returns a poet's books.
func (s *Server) handleGetPoetBooks(w http.ResponseWriter, r *http.Request) {
	books, err := s.poetService.ListBooksByPoet(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, books, s.logger)
}

// handleCreatePoet creates a poet. Admin only.
func (s *Server) handleCreatePoet(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePoetRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	poet, err := s.poetService.CreatePoet(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, poet, s.logger)
}

// handleUpdatePoet updates a poet. Admin only.
func (s *Server) handleUpdatePoet(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePoetRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	poet, err := s.poetService.UpdatePoet(r.Context(), chi.URLParam(r, "slug"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, poet, s.logger)
}

// handleDeletePoet deletes a poet and their books and poems. Admin only.
func (s *Server) handleDeletePoet(w http.ResponseWriter, r *http.Request) {
	if err := s.poetService.DeletePoet(r.Context(), chi.URLParam(r, "slug")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
