package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prismwriting/api/internal/config"
	"prismwriting/api/internal/ids"
	"prismwriting/api/internal/models"
	"prismwriting/api/internal/security"
	"prismwriting/api/internal/store"
)

func testConfig() *config.AppConfig {
	return &config.AppConfig{
		Environment: "development",
		Security: config.SecurityConfig{
			JWTSecret:        "test-secret-0123456789abcdef0123456789",
			AccessTokenTTL:   15 * time.Minute,
			RefreshTokenTTL:  7 * 24 * time.Hour,
			RememberTokenTTL: 30 * 24 * time.Hour,
		},
	}
}

func newTestService(t *testing.T) (*AuthService, *store.MemoryStore) {
	t.Helper()
	cfg := testConfig()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.SeedDemoAccounts())
	tokens := security.NewTokenService(
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenTTL,
		cfg.Security.RefreshTokenTTL,
		cfg.Security.RememberTokenTTL,
	)
	return NewAuthService(mem, tokens, cfg, zerolog.Nop()), mem
}

func TestLoginRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.Login(ctx, LoginInput{Email: "admin@prismwriting.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, res.User.Role)
	require.NotEmpty(t, res.Tokens.AccessToken)

	// The freshly issued access token must resolve back to the same user.
	user, err := svc.CurrentUser(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)
	assert.Equal(t, "admin@prismwriting.com", user.Email)
}

func TestLoginNormalizesEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.Login(ctx, LoginInput{Email: "  ADMIN@PrismWriting.com ", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "admin@prismwriting.com", res.User.Email)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "admin123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginInput{Email: "admin@prismwriting.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginDisabledAccounts(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	hash, err := security.HashPassword("pass1234")
	require.NoError(t, err)
	now := time.Now()
	for _, tt := range []struct {
		email  string
		status models.UserStatus
		want   error
	}{
		{"suspended@example.com", models.StatusSuspended, ErrAccountSuspended},
		{"inactive@example.com", models.StatusInactive, ErrAccountInactive},
	} {
		require.NoError(t, mem.CreateUser(ctx, models.User{
			ID: ids.New(), Email: tt.email, PasswordHash: hash,
			Role: models.RoleMember, Status: tt.status, CreatedAt: now, UpdatedAt: now,
		}))
		_, err := svc.Login(ctx, LoginInput{Email: tt.email, Password: "pass1234"})
		assert.ErrorIs(t, err, tt.want, tt.email)

		// Wrong password on a disabled account still reads as bad
		// credentials, not as a status hint.
		_, err = svc.Login(ctx, LoginInput{Email: tt.email, Password: "wrong"})
		assert.ErrorIs(t, err, ErrInvalidCredentials, tt.email)
	}
}

func TestRegisterForcesMemberRole(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	res, err := svc.Register(ctx, RegisterInput{
		Email:    "new@example.com",
		Password: "pass1234",
		Username: "newbie",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, res.User.Role)

	stored, err := mem.FindUserByEmail(ctx, "new@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleMember, stored.Role)
	assert.Equal(t, models.StatusPendingVerification, stored.Status)

	// A pending-verification account may authenticate.
	user, err := svc.CurrentUser(ctx, res.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, user.ID)
}

func TestRegisterDuplicate(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "pass1234", Username: "dup"})
	require.NoError(t, err)

	_, err = svc.Register(ctx, RegisterInput{Email: "dup@example.com", Password: "pass1234", Username: "dup2"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(ctx, RegisterInput{Email: "dup2@example.com", Password: "pass1234", Username: "dup"})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCurrentUserSessionAuthority(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	res, err := svc.Login(ctx, LoginInput{Email: "member@prismwriting.com", Password: "member123"})
	require.NoError(t, err)

	// Logout deletes the session; the still-unexpired JWT is now dead.
	svc.Logout(ctx, res.Tokens.AccessToken)
	_, err = svc.CurrentUser(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)

	// Expired session: same outcome even though the session row exists.
	res, err = svc.Login(ctx, LoginInput{Email: "member@prismwriting.com", Password: "member123"})
	require.NoError(t, err)
	claims, err := svc.tokens.VerifyToken(res.Tokens.AccessToken)
	require.NoError(t, err)
	session, err := mem.GetSessionByID(ctx, claims.SessionID)
	require.NoError(t, err)
	require.NoError(t, mem.DeleteSession(ctx, session.ID))
	session.ExpiresAt = time.Now().Add(-time.Minute)
	require.NoError(t, mem.CreateSession(ctx, session))
	_, err = svc.CurrentUser(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestCurrentUserDisabledAccount(t *testing.T) {
	ctx := context.Background()
	svc, mem := newTestService(t)

	hash, err := security.HashPassword("pass1234")
	require.NoError(t, err)
	now := time.Now()
	user := models.User{
		ID: ids.New(), Email: "frozen@example.com", PasswordHash: hash,
		Role: models.RoleMember, Status: models.StatusSuspended, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, mem.CreateUser(ctx, user))
	session := models.Session{
		ID: ids.New(), UserID: user.ID, SessionToken: ids.New(),
		ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}
	require.NoError(t, mem.CreateSession(ctx, session))
	pair, err := svc.tokens.GenerateTokens(user, session.ID, false)
	require.NoError(t, err)

	// Valid token, live session, but the owner is suspended: the error is
	// the hard-denial sentinel rather than the generic invalid token.
	_, err = svc.CurrentUser(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestCurrentUserGarbageToken(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CurrentUser(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, security.ErrInvalidToken)
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.Login(ctx, LoginInput{Email: "client@example.com", Password: "client123"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, res.Tokens.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, refreshed.User.ID)

	user, err := svc.CurrentUser(ctx, refreshed.Tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, user.ID)

	// Once the session is gone, refresh is dead too.
	svc.Logout(ctx, res.Tokens.AccessToken)
	_, err = svc.Refresh(ctx, res.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	res, err := svc.Login(ctx, LoginInput{Email: "client@example.com", Password: "client123"})
	require.NoError(t, err)

	// A still-valid access token is not a refresh credential.
	_, err = svc.Refresh(ctx, res.Tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
