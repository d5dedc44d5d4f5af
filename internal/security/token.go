package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"prismwriting/api/internal/models"
)

// CookieAccessToken is the single cookie name shared by token issuance
// and extraction. Browser sessions carry the access token under this
// name; API clients use the Authorization header instead.
const CookieAccessToken = "accessToken"

var ErrInvalidToken = errors.New("invalid token")

// Token types carried in the typ claim. Refresh exchange only honors
// refresh tokens, so a leaked access token cannot mint new pairs.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// TokenClaims is the payload embedded in both access and refresh
// tokens. The session id is a capability reference: the token is only
// honored while the referenced session is still live.
type TokenClaims struct {
	UserID    string          `json:"uid"`
	Email     string          `json:"email"`
	Role      models.UserRole `json:"role"`
	SessionID string          `json:"sid"`
	TokenType string          `json:"typ"`
	jwt.RegisteredClaims
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenService signs and verifies the token pair. Access tokens have a
// fixed short lifetime; the refresh lifetime depends on rememberMe.
type TokenService struct {
	secret      []byte
	accessTTL   time.Duration
	refreshTTL  time.Duration
	rememberTTL time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL, rememberTTL time.Duration) *TokenService {
	return &TokenService{
		secret:      []byte(secret),
		accessTTL:   accessTTL,
		refreshTTL:  refreshTTL,
		rememberTTL: rememberTTL,
	}
}

func (t *TokenService) GenerateTokens(user models.User, sessionID string, rememberMe bool) (TokenPair, error) {
	access, err := t.sign(user, sessionID, t.accessTTL, TokenTypeAccess)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign access token: %w", err)
	}

	refreshTTL := t.refreshTTL
	if rememberMe {
		refreshTTL = t.rememberTTL
	}
	refresh, err := t.sign(user, sessionID, refreshTTL, TokenTypeRefresh)
	if err != nil {
		return TokenPair{}, fmt.Errorf("sign refresh token: %w", err)
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (t *TokenService) sign(user models.User, sessionID string, ttl time.Duration, tokenType string) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    user.ID,
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sessionID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			Subject:   user.ID,
			ID:        sessionID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(t.secret)
}

// VerifyToken checks signature and expiry only. Session liveness is the
// caller's responsibility. Any failure, including malformed input,
// yields ErrInvalidToken without detail.
func (t *TokenService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &TokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return t.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
