package store

import (
	"context"
	"errors"
	"time"

	"prismwriting/api/internal/models"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrSessionNotFound = errors.New("session not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrUsernameTaken   = errors.New("username already taken")
)

// CredentialStore persists users and their sessions. Two backends
// exist: the durable postgres store and a transient in-process store.
// The backend is chosen once at startup and never per request.
type CredentialStore interface {
	CreateUser(ctx context.Context, user models.User) error
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	GetUserByID(ctx context.Context, id string) (models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	CreateSession(ctx context.Context, session models.Session) error
	GetSessionByID(ctx context.Context, id string) (models.Session, error)
	DeleteSession(ctx context.Context, id string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Name identifies the backend in logs and health output.
	Name() string
}
