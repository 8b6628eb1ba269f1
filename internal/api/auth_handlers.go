package api

import (
	"net/http"

	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/service"
)

// handleAuthStatus reports whether the server still needs its initial setup.
func (s *Server) handleAuthStatus(w http.ResponseWriter, r *http.Request) {
	needsSetup, err := s.authService.NeedsSetup(r.Context())
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, map[string]bool{"setup_required": needsSetup}, s.logger)
}

// handleSetup creates the root administrator. Works exactly once.
func (s *Server) handleSetup(w http.ResponseWriter, r *http.Request) {
	var req service.SetupRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.authService.Setup(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleRegister creates a reader account.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.authService.Register(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Created(w, result, s.logger)
}

// handleLogin authenticates a user and returns a token pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req service.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.authService.Login(r.Context(), req)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// refreshRequest carries the refresh token for refresh and logout.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// handleRefresh exchanges a refresh token for a new token pair.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	result, err := s.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, result, s.logger)
}

// handleLogout revokes the session behind a refresh token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request body", s.logger)
		return
	}

	if err := s.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleLogoutAll revokes every session of the authenticated user.
func (s *Server) handleLogoutAll(w http.ResponseWriter, r *http.Request) {
	if err := s.authService.LogoutAll(r.Context(), getUserID(r.Context())); err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.NoContent(w)
}

// handleGetCurrentUser returns the authenticated user's profile.
func (s *Server) handleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	user, err := s.authService.GetUser(r.Context(), getUserID(r.Context()))
	if err != nil {
		response.HandleError(w, err, s.logger)
		return
	}

	response.Success(w, user, s.logger)
}
