package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/guftaho/guftaho-server/internal/auth"
	"github.com/guftaho/guftaho-server/internal/domain"
	"github.com/guftaho/guftaho-server/internal/errors"
	"github.com/guftaho/guftaho-server/internal/id"
	"github.com/guftaho/guftaho-server/internal/store"
	"github.com/guftaho/guftaho-server/internal/validation"
)

// AuthService handles account setup, login, and session management.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	logger    *slog.Logger
	validator *validation.Validator
}

// NewAuthService creates a new auth service.
func NewAuthService(store store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     store,
		tokens:    tokens,
		logger:    logger,
		validator: validation.New(),
	}
}

// TokenPair is the credential set returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"` // Access token lifetime in seconds
}

// AuthResult bundles the authenticated user with their tokens.
type AuthResult struct {
	User   *domain.User `json:"user"`
	Tokens *TokenPair   `json:"tokens"`
}

// NeedsSetup reports whether the server has no users yet.
// A fresh install accepts exactly one setup call, which creates the root
// administrator.
func (s *AuthService) NeedsSetup(ctx context.Context) (bool, error) {
	count, err := s.store.CountUsers(ctx)
	if err != nil {
		return false, err
	}
	return count == 0, nil
}

// SetupRequest creates the root administrator on a fresh install.
type SetupRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// Setup creates the root administrator account. Fails once any user exists.
func (s *AuthService) Setup(ctx context.Context, req SetupRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	needsSetup, err := s.NeedsSetup(ctx)
	if err != nil {
		return nil, err
	}
	if !needsSetup {
		return nil, errors.AlreadyConfigured("server is already set up")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, domain.RoleAdmin, true)
	if err != nil {
		return nil, err
	}

	s.logger.Info("root administrator created", "user_id", user.ID, "email", user.Email)
	return s.issueTokens(ctx, user)
}

// RegisterRequest creates a reader account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=128"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// Register creates a reader account. Registration is only open once the
// server has been set up.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	needsSetup, err := s.NeedsSetup(ctx)
	if err != nil {
		return nil, err
	}
	if needsSetup {
		return nil, errors.Forbidden("server has not been set up")
	}

	user, err := s.createUser(ctx, req.Email, req.Password, req.DisplayName, domain.RoleReader, false)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return s.issueTokens(ctx, user)
}

// createUser hashes the password and persists a new user.
func (s *AuthService) createUser(ctx context.Context, email, password, displayName string, role domain.Role, isRoot bool) (*domain.User, error) {
	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return nil, errors.Validation(err.Error())
	}

	userID, err := id.Generate("user")
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Record:       domain.Record{ID: userID},
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		IsRoot:       isRoot,
		Role:         role,
	}
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.AlreadyExists("an account with this email already exists")
		}
		return nil, err
	}

	return user, nil
}

// LoginRequest contains login credentials.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and issues a token pair.
// Unknown email and wrong password return the same error, so login
// responses don't reveal which accounts exist.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.InvalidCredentials("invalid email or password")
		}
		return nil, err
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, req.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.InvalidCredentials("invalid email or password")
	}

	user.LastLoginAt = time.Now()
	user.Touch()
	if err := s.store.UpdateUser(ctx, user); err != nil {
		s.logger.Warn("failed to record last login", "user_id", user.ID, "error", err)
	}

	s.logger.Info("user logged in", "user_id", user.ID)
	return s.issueTokens(ctx, user)
}

// issueTokens creates an access token and a refresh session for the user.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	sessionID, err := id.Generate("session")
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &domain.Session{
		ID:               sessionID,
		UserID:           user.ID,
		RefreshTokenHash: auth.HashRefreshToken(refreshToken),
		ExpiresAt:        now.Add(s.tokens.RefreshTokenDuration()),
		CreatedAt:        now,
		LastUsedAt:       now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User: user,
		Tokens: &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
		},
	}, nil
}

// Refresh rotates a refresh token and issues a new token pair.
// The presented token is invalidated; each refresh token works exactly once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, errors.Unauthorized("refresh token required")
	}

	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("invalid refresh token")
		}
		return nil, err
	}

	now := time.Now()
	if session.IsExpired(now) {
		_ = s.store.DeleteSession(ctx, session.ID)
		return nil, errors.TokenExpired("refresh token expired")
	}

	user, err := s.store.GetUser(ctx, session.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	newRefreshToken, err := s.tokens.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	session.RefreshTokenHash = auth.HashRefreshToken(newRefreshToken)
	session.ExpiresAt = now.Add(s.tokens.RefreshTokenDuration())
	session.LastUsedAt = now

	if err := s.store.UpdateSession(ctx, session); err != nil {
		return nil, err
	}

	return &AuthResult{
		User: user,
		Tokens: &TokenPair{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
			ExpiresIn:    int64(s.tokens.AccessTokenDuration().Seconds()),
		},
	}, nil
}

// Logout invalidates the session behind a refresh token.
// An unknown token succeeds: logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}

	session, err := s.store.GetSessionByRefreshToken(ctx, auth.HashRefreshToken(refreshToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	return s.store.DeleteSession(ctx, session.ID)
}

// LogoutAll invalidates every session of the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID string) error {
	return s.store.DeleteAllUserSessions(ctx, userID)
}

// GetUser returns the user's profile.
func (s *AuthService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.store.GetUser(ctx, userID)
}

// PurgeExpiredSessions deletes sessions past their expiry. Called
// periodically by the session janitor.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int, error) {
	return s.store.DeleteExpiredSessions(ctx, time.Now())
}
