// Package api provides the HTTP API server and handlers for the Guftaho archive.
package api

import (
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/http/response"
	"github.com/guftaho/guftaho-server/internal/ratelimit"
	"github.com/guftaho/guftaho-server/internal/service"
	"github.com/guftaho/guftaho-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	name string

	store           store.Store
	tokens          *auth.TokenService
	authService     *service.AuthService
	poetService     *service.PoetService
	bookService     *service.BookService
	poemService     *service.PoemService
	favoriteService *service.FavoriteService
	readingService  *service.ReadingService
	searchService   *service.SearchService

	loginLimiter *ratelimit.KeyedRateLimiter
	router       *chi.Mux
	logger       *slog.Logger
}

// Config holds server construction parameters.
type Config struct {
	Name string

	Store           store.Store
	Tokens          *auth.TokenService
	AuthService     *service.AuthService
	PoetService     *service.PoetService
	BookService     *service.BookService
	PoemService     *service.PoemService
	FavoriteService *service.FavoriteService
	ReadingService  *service.ReadingService
	SearchService   *service.SearchService

	LoginLimiter *ratelimit.KeyedRateLimiter
	Logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg Config) *Server {
	s := &Server{
		name:            cfg.Name,
		store:           cfg.Store,
		tokens:          cfg.Tokens,
		authService:     cfg.AuthService,
		poetService:     cfg.PoetService,
		bookService:     cfg.BookService,
		poemService:     cfg.PoemService,
		favoriteService: cfg.FavoriteService,
		readingService:  cfg.ReadingService,
		searchService:   cfg.SearchService,
		loginLimiter:    cfg.LoginLimiter,
		router:          chi.NewRouter(),
		logger:          cfg.Logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public).
		r.Route("/auth", func(r chi.Router) {
			r.Get("/status", s.handleAuthStatus)
			r.With(s.rateLimitLogin).Post("/setup", s.handleSetup)
			r.Post("/register", s.handleRegister)
			r.With(s.rateLimitLogin).Post("/login", s.handleLogin)
			r.Post("/refresh", s.handleRefresh)
			r.Post("/logout", s.handleLogout)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth)
				r.Get("/me", s.handleGetCurrentUser)
				r.Post("/logout-all", s.handleLogoutAll)
			})
		})

		// Catalog reads are public.
		r.Route("/poets", func(r chi.Router) {
			r.Get("/", s.handleListPoets)
			r.Get("/{slug}", s.handleGetPoet)
			r.Get("/{slug}/books", s.handleGetPoetBooks)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Post("/", s.handleCreatePoet)
				r.Patch("/{slug}", s.handleUpdatePoet)
				r.Delete("/{slug}", s.handleDeletePoet)
			})
		})

		r.Route("/books", func(r chi.Router) {
			r.Get("/", s.handleListBooks)
			r.Get("/{slug}", s.handleGetBook)
			r.Get("/{slug}/poems", s.handleGetBookPoems)
			r.Get("/{slug}/poems/{poemSlug}", s.handleGetPoem)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Post("/", s.handleCreateBook)
				r.Patch("/{slug}", s.handleUpdateBook)
				r.Delete("/{slug}", s.handleDeleteBook)
				r.Patch("/{slug}/poems/{poemSlug}", s.handleUpdatePoem)
				r.Delete("/{slug}/poems/{poemSlug}", s.handleDeletePoem)
			})
		})

		r.Route("/poems", func(r chi.Router) {
			r.Get("/", s.handleListPoems)

			r.Group(func(r chi.Router) {
				r.Use(s.requireAuth, s.requireAdmin)
				r.Post("/", s.handleCreatePoem)
			})
		})

		// Search.
		r.Get("/search", s.handleSearch)
		r.With(s.requireAuth, s.requireAdmin).Post("/search/reindex", s.handleReindex)

		// Per-user features.
		r.Route("/favorites", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListFavorites)
			r.Post("/toggle", s.handleToggleFavorite)
		})

		r.Route("/reading-history", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/", s.handleListReadingHistory)
			r.Post("/", s.handleRecordReading)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, map[string]string{
		"status": "healthy",
		"name":   s.name,
	}, s.logger)
}

// Helper functions.

// decodeJSON decodes a request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	return json.UnmarshalRead(r.Body, dst)
}

// parsePaginationParams parses pagination parameters from query string.
func parsePaginationParams(r *http.Request) store.PaginationParams {
	params := store.DefaultPaginationParams()

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			params.Limit = limit
		}
	}

	if cursor := r.URL.Query().Get("cursor"); cursor != "" {
		params.Cursor = cursor
	}

	params.Validate()

	return params
}
