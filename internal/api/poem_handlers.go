package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/service"
	"github.com/guftaho/guftaho-server/internal/store"
)

// handleListPoems returns a paginated poem listing.
// Query params: q, poet (slug), book (slug), limit, cursor.
func (s *Server) handleListPoems(w http.ResponseWriter, r *http.Request) {
	filter := store.PoemFilter{
		Query:    r.URL.Query().Get("q"),
		PoetSlug: r.URL.Query().Get("poet"),
		BookSlug: r.URL.Query().Get("book"),
	}

	result, err := s.poemService.ListPoems(r.Context(), filter, parsePaginationParams(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleGetPoem returns a poem with its reading-order neighbors and counts
// the view. The poem slug only resolves within its book.
func (s *Server) handleGetPoem(w http.ResponseWriter, r *http.Request) {
	page, err := s.poemService.GetPoemBySlug(r.Context(), chi.URLParam(r, "slug"), chi.URLParam(r, "poemSlug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, page, s.logger)
}

// handleCreatePoem creates a poem. Admin only.
func (s *Server) handleCreatePoem(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePoemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	poem, err := s.poemService.CreatePoem(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, poem, s.logger)
}

// handleUpdatePoem updates a poem. Admin only.
func (s *Server) handleUpdatePoem(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePoemRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	poem, err := s.poemService.UpdatePoem(r.Context(), chi.URLParam(r, "slug"), chi.URLParam(r, "poemSlug"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, poem, s.logger)
}

// handleDeletePoem deletes a poem. Admin only.
func (s *Server) handleDeletePoem(w http.ResponseWriter, r *http.Request) {
	if err := s.poemService.DeletePoem(r.Context(), chi.URLParam(r, "slug"), chi.URLParam(r, "poemSlug")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
