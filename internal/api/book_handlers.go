package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/service"
	"github.com/guftaho/guftaho-server/internal/store"
)

// handleListBooks returns a paginated book listing.
// Query params: q, poet (slug), limit, cursor.
func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	filter := store.BookFilter{
		Query:    r.URL.Query().Get("q"),
		PoetSlug: r.URL.Query().Get("poet"),
	}

	result, err := s.bookService.ListBooks(r.Context(), filter, parsePaginationParams(r))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleGetBook returns one book by slug and counts the view.
func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.bookService.GetBookBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleGetBookPoems returns a book's poems in reading order.
func (s *Server) handleGetBookPoems(w http.ResponseWriter, r *http.Request) {
	poems, err := s.bookService.ListPoemsByBook(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, poems, s.logger)
}

// handleCreateBook creates a book. Admin only.
func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var req service.CreateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.CreateBook(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, book, s.logger)
}

// handleUpdateBook updates a book. Admin only.
func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	var req service.UpdateBookRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	book, err := s.bookService.UpdateBook(r.Context(), chi.URLParam(r, "slug"), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, book, s.logger)
}

// handleDeleteBook deletes a book and its poems. Admin only.
func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	if err := s.bookService.DeleteBook(r.Context(), chi.URLParam(r, "slug")); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}
