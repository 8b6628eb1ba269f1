package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/guftaho/guftaho-server/internal/http/response"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	contextKeyUserID contextKey = "user_id"
	contextKeyEmail  contextKey = "email"
	contextKeyRole   contextKey = "role"
	contextKeyIsRoot contextKey = "is_root"
)

// requireAuth validates the Bearer access token and attaches the caller's
// identity to the request context. Claims come from the encrypted token,
// so no database round trip happens per request.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			response.Unauthorized(w, "Missing authorization header", s.logger)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(w, "Invalid authorization header format", s.logger)
			return
		}

		claims, err := s.tokens.VerifyAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(w, "Invalid or expired token", s.logger)
			return
		}

		ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
		ctx = context.WithValue(ctx, contextKeyEmail, claims.Email)
		ctx = context.WithValue(ctx, contextKeyRole, claims.Role)
		ctx = context.WithValue(ctx, contextKeyIsRoot, claims.IsRoot)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin ensures the authenticated caller can curate the catalog.
// Must be used after requireAuth.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r.Context()) {
			response.Forbidden(w, "Admin access required", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// rateLimitLogin throttles login attempts per client IP.
// RealIP middleware runs first, so RemoteAddr is the client address.
func (s *Server) rateLimitLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.loginLimiter != nil && !s.loginLimiter.Allow(clientIP(r)) {
			response.Error(w, http.StatusTooManyRequests, "Too many login attempts, try again later", s.logger)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIP strips the port from RemoteAddr.
func clientIP(r *http.Request) string {
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i != -1 {
		return addr[:i]
	}
	return addr
}

// getUserID extracts the authenticated user ID from request context.
// Returns empty string if not authenticated.
func getUserID(ctx context.Context) string {
	if userID, ok := ctx.Value(contextKeyUserID).(string); ok {
		return userID
	}
	return ""
}

// isAdmin reports whether the authenticated caller has admin privileges.
// Root users are admins regardless of role.
func isAdmin(ctx context.Context) bool {
	if isRoot, ok := ctx.Value(contextKeyIsRoot).(bool); ok && isRoot {
		return true
	}
	if role, ok := ctx.Value(contextKeyRole).(string); ok {
		return role == "admin"
	}
	return false
}
