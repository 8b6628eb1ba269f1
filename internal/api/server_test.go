package api

import (
	"bytes"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/ratelimit"
	"github.com/guftaho/guftaho-server/internal/search"
	"github.com/guftaho/guftaho-server/internal/service"
	"github.com/guftaho/guftaho-server/internal/store/sqlite"
)

type testServer struct {
	t      *testing.T
	server *Server
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	index, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { index.Close() })

	tokens, err := auth.NewTokenService(strings.Repeat("cd", 32), 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	searchService := service.NewSearchService(index, st, logger)
	st.SetSearchIndexer(searchService)

	limiter := ratelimit.PerMinute(60, 3)
	t.Cleanup(limiter.Stop)

	server := NewServer(Config{
		Name:            "Guftaho Test",
		Store:           st,
		Tokens:          tokens,
		AuthService:     service.NewAuthService(st, tokens, logger),
		PoetService:     service.NewPoetService(st, logger),
		BookService:     service.NewBookService(st, logger),
		PoemService:     service.NewPoemService(st, logger),
		FavoriteService: service.NewFavoriteService(st, logger),
		ReadingService:  service.NewReadingService(st, logger),
		SearchService:   searchService,
		LoginLimiter:    limiter,
		Logger:          logger,
	})

	return &testServer{t: t, server: server}
}

// do performs a request against the server and returns the recorder.
func (ts *testServer) do(method, path, token string, body any) *httptest.ResponseRecorder {
	ts.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(ts.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	ts.server.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals a response body envelope into a map.
func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

// data returns the envelope's data object.
func data(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	d, ok := decode(t, rec)["data"].(map[string]any)
	require.True(t, ok, "response has no data object: %s", rec.Body.String())
	return d
}

// setupAdmin runs initial setup and returns the admin access token.
func (ts *testServer) setupAdmin() string {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/setup", "", map[string]string{
		"email":        "admin@example.com",
		"password":     "correct horse battery",
		"display_name": "Admin",
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	tokens := data(ts.t, rec)["tokens"].(map[string]any)
	return tokens["access_token"].(string)
}

// registerReader creates a reader account and returns its access token.
func (ts *testServer) registerReader(email string) string {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email":        email,
		"password":     "reader password",
		"display_name": "Reader",
	})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())

	tokens := data(ts.t, rec)["tokens"].(map[string]any)
	return tokens["access_token"].(string)
}

// createPoet creates a poet through the API and returns its slug.
func (ts *testServer) createPoet(adminToken, name string) string {
	ts.t.Helper()

	rec := ts.do(http.MethodPost, "/api/v1/poets/", adminToken, map[string]string{"name": name})
	require.Equal(ts.t, http.StatusCreated, rec.Code, rec.Body.String())
	return data(ts.t, rec)["slug"].(string)
}

func TestHealthCheck(t *testing.T) {
	ts := setupTestServer(t)

	rec := ts.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", data(t, rec)["status"])
}

func TestAuthFlow(t *testing.T) {
	ts := setupTestServer(t)

	// Fresh server wants setup.
	rec := ts.do(http.MethodGet, "/api/v1/auth/status", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, data(t, rec)["setup_required"])

	token := ts.setupAdmin()

	// Setup is one-shot.
	rec = ts.do(http.MethodPost, "/api/v1/auth/setup", "", map[string]string{
		"email":        "other@example.com",
		"password":     "another password",
		"display_name": "Other",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// The token authenticates /auth/me.
	rec = ts.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin@example.com", data(t, rec)["email"])

	// No token, no profile.
	rec = ts.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token is rejected.
	rec = ts.do(http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginAndRefresh(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin()

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "correct horse battery",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	tokens := data(t, rec)["tokens"].(map[string]any)
	refreshToken := tokens["refresh_token"].(string)

	rec = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": refreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	rotated := data(t, rec)["tokens"].(map[string]any)
	assert.NotEqual(t, refreshToken, rotated["refresh_token"])

	// The old refresh token is spent.
	rec = ts.do(http.MethodPost, "/api/v1/auth/refresh", "", map[string]string{
		"refresh_token": refreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_WrongPassword(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin()

	rec := ts.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogin_RateLimited(t *testing.T) {
	ts := setupTestServer(t)
	ts.setupAdmin()

	body := map[string]string{"email": "admin@example.com", "password": "wrong"}

	// Burst of 3, then throttled.
	var last int
	for i := 0; i < 4; i++ {
		last = ts.do(http.MethodPost, "/api/v1/auth/login", "", body).Code
	}
	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestCatalogPermissions(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := ts.setupAdmin()
	readerToken := ts.registerReader("reader@example.com")

	body := map[string]string{"name": "Рӯдакӣ"}

	// Anonymous create is rejected.
	rec := ts.do(http.MethodPost, "/api/v1/poets/", "", body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Readers can't curate.
	rec = ts.do(http.MethodPost, "/api/v1/poets/", readerToken, body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admins can.
	rec = ts.do(http.MethodPost, "/api/v1/poets/", adminToken, body)
	assert.Equal(t, http.StatusCreated, rec.Code)

	// Reads stay public.
	rec = ts.do(http.MethodGet, "/api/v1/poets/rudaki", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogCRUD(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := ts.setupAdmin()

	poetSlug := ts.createPoet(adminToken, "Ҳофизи Шерозӣ")
	assert.Equal(t, "hofizi-sherozi", poetSlug)

	// Create a book under the poet.
	rec := ts.do(http.MethodPost, "/api/v1/books/", adminToken, map[string]string{
		"title":     "Девони Ҳофиз",
		"poet_slug": poetSlug,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	bookSlug := data(t, rec)["slug"].(string)
	assert.Equal(t, "devoni-hofiz", bookSlug)

	// Create two poems.
	for i, title := range []string{"Ғазали аввал", "Ғазали дуюм"} {
		rec = ts.do(http.MethodPost, "/api/v1/poems/", adminToken, map[string]any{
			"title":     title,
			"book_slug": bookSlug,
			"content":   "Ало ё айюҳассоқӣ адир каъсан ва новилҳо",
			"order":     i + 1,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	// Poem page resolves within its book and carries navigation.
	rec = ts.do(http.MethodGet, "/api/v1/books/"+bookSlug+"/poems/ghazali-avval", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	page := data(t, rec)
	poem := page["poem"].(map[string]any)
	assert.Equal(t, "Ғазали аввал", poem["title"])
	assert.NotNil(t, page["next"])

	// Poet detail includes its books listing.
	rec = ts.do(http.MethodGet, "/api/v1/poets/"+poetSlug+"/books", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Update keeps the slug.
	rec = ts.do(http.MethodPatch, "/api/v1/poets/"+poetSlug, adminToken, map[string]string{
		"biography": "Шоири бузурги форсу тоҷик",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, poetSlug, data(t, rec)["slug"])

	// Delete cascades.
	rec = ts.do(http.MethodDelete, "/api/v1/poets/"+poetSlug, adminToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = ts.do(http.MethodGet, "/api/v1/books/"+bookSlug, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearchEndpoint(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := ts.setupAdmin()
	ts.createPoet(adminToken, "Рӯдакӣ")

	rec := ts.do(http.MethodGet, "/api/v1/search?q=Рӯдакӣ", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	result := data(t, rec)
	assert.Equal(t, float64(1), result["total"])

	// Reindex is admin only.
	rec = ts.do(http.MethodPost, "/api/v1/search/reindex", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = ts.do(http.MethodPost, "/api/v1/search/reindex", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(1), data(t, rec)["documents"])
}

func TestFavoritesAndReadingEndpoints(t *testing.T) {
	ts := setupTestServer(t)
	adminToken := ts.setupAdmin()
	readerToken := ts.registerReader("reader@example.com")

	poetSlug := ts.createPoet(adminToken, "Рӯдакӣ")

	rec := ts.do(http.MethodGet, "/api/v1/poets/"+poetSlug, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	poetID := data(t, rec)["id"].(string)

	// Toggle on.
	rec = ts.do(http.MethodPost, "/api/v1/favorites/toggle", readerToken, map[string]string{
		"target_type": "poet",
		"target_id":   poetID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, data(t, rec)["favorited"])

	rec = ts.do(http.MethodGet, "/api/v1/favorites/", readerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Toggle off.
	rec = ts.do(http.MethodPost, "/api/v1/favorites/toggle", readerToken, map[string]string{
		"target_type": "poet",
		"target_id":   poetID,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, data(t, rec)["favorited"])

	// Reading history needs auth.
	rec = ts.do(http.MethodGet, "/api/v1/reading-history/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
