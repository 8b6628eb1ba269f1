package api

import (
	"net/http"

	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/service"
)

// handleListFavorites returns the caller's favorites, newest first.
func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	favorites, err := s.favoriteService.ListFavorites(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, favorites, s.logger)
}

// handleToggleFavorite adds or removes a favorite on a poet, book, or poem.
func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	var req service.ToggleFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.favoriteService.ToggleFavorite(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleListReadingHistory returns the caller's reading history, most
// recent read first.
func (s *Server) handleListReadingHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.readingService.ListReadingHistory(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, history, s.logger)
}

// handleRecordReading records a read of a poem.
func (s *Server) handleRecordReading(w http.ResponseWriter, r *http.Request) {
	var req service.RecordReadingRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	entry, err := s.readingService.RecordReading(r.Context(), getUserID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, entry, s.logger)
}
