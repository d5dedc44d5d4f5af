package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"prismwriting/api/internal/config"
	"prismwriting/api/internal/ids"
	"prismwriting/api/internal/models"
	"prismwriting/api/internal/security"
	"prismwriting/api/internal/store"
)

var (
	// ErrInvalidCredentials covers unknown email and wrong password
	// alike; the caller must not be able to tell which one happened.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	ErrAccountSuspended   = errors.New("Account is suspended. Please contact support.")
	ErrAccountInactive    = errors.New("Account is inactive. Please contact support.")
	ErrEmailTaken         = errors.New("User with this email already exists")
	ErrUsernameTaken      = errors.New("Username is already taken")

	// ErrAccountDisabled marks a structurally valid session whose owner
	// is suspended or inactive. The gate turns it into a hard 403
	// instead of the soft login redirect.
	ErrAccountDisabled = errors.New("account disabled")
)

type AuthService struct {
	store  store.CredentialStore
	tokens *security.TokenService
	cfg    *config.AppConfig
	log    zerolog.Logger
}

func NewAuthService(credStore store.CredentialStore, tokens *security.TokenService, cfg *config.AppConfig, log zerolog.Logger) *AuthService {
	return &AuthService{
		store:  credStore,
		tokens: tokens,
		cfg:    cfg,
		log:    log,
	}
}

type LoginInput struct {
	Email      string
	Password   string
	RememberMe bool
}

type AuthResult struct {
	User   models.AuthUser
	Tokens security.TokenPair
}

func (s *AuthService) Login(ctx context.Context, input LoginInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := s.store.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Burn a bcrypt compare so the unknown-email path costs the
			// same as a wrong-password one.
			security.DummyCompare(input.Password)
			return AuthResult{}, ErrInvalidCredentials
		}
		return AuthResult{}, err
	}

	if !security.VerifyPassword(input.Password, user.PasswordHash) {
		return AuthResult{}, ErrInvalidCredentials
	}

	switch user.Status {
	case models.StatusSuspended:
		return AuthResult{}, ErrAccountSuspended
	case models.StatusInactive:
		return AuthResult{}, ErrAccountInactive
	}

	now := time.Now()
	if err := s.store.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("update last login failed")
	}

	sessionTTL := s.cfg.Security.RefreshTokenTTL
	if input.RememberMe {
		sessionTTL = s.cfg.Security.RememberTokenTTL
	}

	return s.issueSession(ctx, user, sessionTTL, input.RememberMe)
}

type RegisterInput struct {
	Email     string
	Password  string
	Username  string
	FirstName string
	LastName  string
}

// Register creates a MEMBER account pending verification. Role and
// status are never caller-controlled.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (AuthResult, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	hash, err := security.HashPassword(input.Password)
	if err != nil {
		return AuthResult{}, err
	}

	now := time.Now()
	user := models.User{
		ID:           ids.New(),
		Email:        email,
		PasswordHash: hash,
		Role:         models.RoleMember,
		Status:       models.StatusPendingVerification,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if input.Username != "" {
		user.Username = &input.Username
	}
	if input.FirstName != "" {
		user.FirstName = &input.FirstName
	}
	if input.LastName != "" {
		user.LastName = &input.LastName
	}

	if err := s.store.CreateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrEmailTaken):
			return AuthResult{}, ErrEmailTaken
		case errors.Is(err, store.ErrUsernameTaken):
			return AuthResult{}, ErrUsernameTaken
		}
		return AuthResult{}, err
	}

	// Registration sessions always get the base lifetime; there is no
	// remember-me at registration.
	return s.issueSession(ctx, user, s.cfg.Security.RefreshTokenTTL, false)
}

func (s *AuthService) issueSession(ctx context.Context, user models.User, ttl time.Duration, rememberMe bool) (AuthResult, error) {
	now := time.Now()
	session := models.Session{
		ID:           ids.New(),
		UserID:       user.ID,
		SessionToken: ids.New(),
		ExpiresAt:    now.Add(ttl),
		CreatedAt:    now,
	}

	if err := s.store.CreateSession(ctx, session); err != nil {
		return AuthResult{}, err
	}

	tokens, err := s.tokens.GenerateTokens(user, session.ID, rememberMe)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user.AuthView(), Tokens: tokens}, nil
}

// CurrentUser resolves a token to its user. A cryptographically valid
// token is not enough: its embedded session must still exist and be
// unexpired, which is what makes server-side invalidation possible.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (models.AuthUser, error) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return models.AuthUser{}, security.ErrInvalidToken
	}

	session, err := s.store.GetSessionByID(ctx, claims.SessionID)
	if err != nil {
		return models.AuthUser{}, security.ErrInvalidToken
	}
	if session.Expired(time.Now()) {
		return models.AuthUser{}, security.ErrInvalidToken
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return models.AuthUser{}, security.ErrInvalidToken
	}

	if !user.Status.CanAuthenticate() {
		return models.AuthUser{}, ErrAccountDisabled
	}

	return user.AuthView(), nil
}

// Refresh mints a new token pair from a refresh token, subject to the
// same session double-check as CurrentUser.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (AuthResult, error) {
	claims, err := s.tokens.VerifyToken(refreshToken)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}
	if claims.TokenType != security.TokenTypeRefresh {
		return AuthResult{}, ErrInvalidCredentials
	}

	session, err := s.store.GetSessionByID(ctx, claims.SessionID)
	if err != nil || session.Expired(time.Now()) {
		return AuthResult{}, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByID(ctx, session.UserID)
	if err != nil {
		return AuthResult{}, ErrInvalidCredentials
	}

	switch user.Status {
	case models.StatusSuspended:
		return AuthResult{}, ErrAccountSuspended
	case models.StatusInactive:
		return AuthResult{}, ErrAccountInactive
	}

	tokens, err := s.tokens.GenerateTokens(user, session.ID, false)
	if err != nil {
		return AuthResult{}, err
	}

	return AuthResult{User: user.AuthView(), Tokens: tokens}, nil
}

// Logout deletes the token's session. Best effort: an invalid token or
// missing session is not an error worth surfacing.
func (s *AuthService) Logout(ctx context.Context, token string) {
	claims, err := s.tokens.VerifyToken(token)
	if err != nil {
		return
	}
	if err := s.store.DeleteSession(ctx, claims.SessionID); err != nil && !errors.Is(err, store.ErrSessionNotFound) {
		s.log.Warn().Err(err).Str("session_id", claims.SessionID).Msg("delete session failed")
	}
}
