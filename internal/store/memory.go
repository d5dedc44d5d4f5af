package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"prismwriting/api/internal/ids"
	"prismwriting/api/internal/models"
	"prismwriting/api/internal/security"
)

// MemoryStore is the transient in-process credential store. It exists
// so the service stays usable when postgres is unreachable; everything
// in it is lost on restart.
type MemoryStore struct {
	mu       sync.RWMutex
	users    map[string]models.User    // keyed by id
	emails   map[string]string         // email → id
	names    map[string]string         // username → id
	sessions map[string]models.Session // keyed by id
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[string]models.User),
		emails:   make(map[string]string),
		names:    make(map[string]string),
		sessions: make(map[string]models.Session),
	}
}

func (s *MemoryStore) Name() string { return "memory" }

type demoAccount struct {
	email     string
	username  string
	firstName string
	lastName  string
	password  string
	role      models.UserRole
}

var demoAccounts = []demoAccount{
	{"admin@prismwriting.com", "admin", "System", "Administrator", "admin123", models.RoleSuperAdmin},
	{"member@prismwriting.com", "member", "Demo", "Member", "member123", models.RoleMember},
	{"client@example.com", "client", "Demo", "Client", "client123", models.RoleClient},
}

// SeedDemoAccounts installs the three fixed development accounts. The
// passwords go through the same bcrypt path as real credentials; there
// is no plaintext verification anywhere. Config refuses to enable this
// in production.
func (s *MemoryStore) SeedDemoAccounts() error {
	now := time.Now()
	for _, acct := range demoAccounts {
		hash, err := security.HashPassword(acct.password)
		if err != nil {
			return fmt.Errorf("seed %s: %w", acct.email, err)
		}
		username := acct.username
		firstName := acct.firstName
		lastName := acct.lastName
		user := models.User{
			ID:           ids.New(),
			Email:        acct.email,
			Username:     &username,
			FirstName:    &firstName,
			LastName:     &lastName,
			PasswordHash: hash,
			Role:         acct.role,
			Status:       models.StatusActive,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if err := s.CreateUser(context.Background(), user); err != nil {
			return fmt.Errorf("seed %s: %w", acct.email, err)
		}
	}
	return nil
}

func (s *MemoryStore) CreateUser(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.emails[user.Email]; taken {
		return ErrEmailTaken
	}
	if user.Username != nil {
		if _, taken := s.names[*user.Username]; taken {
			return ErrUsernameTaken
		}
	}

	s.users[user.ID] = user
	s.emails[user.Email] = user.ID
	if user.Username != nil {
		s.names[*user.Username] = user.ID
	}
	return nil
}

func (s *MemoryStore) FindUserByEmail(_ context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.emails[email]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return s.users[id], nil
}

func (s *MemoryStore) GetUserByID(_ context.Context, id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return models.User{}, ErrUserNotFound
	}
	return user, nil
}

func (s *MemoryStore) ListUsers(_ context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func (s *MemoryStore) UpdateLastLogin(_ context.Context, userID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	user.LastLogin = &at
	user.UpdatedAt = at
	s.users[userID] = user
	return nil
}

func (s *MemoryStore) CreateSession(_ context.Context, session models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions[session.ID] = session
	return nil
}

func (s *MemoryStore) GetSessionByID(_ context.Context, id string) (models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return models.Session{}, ErrSessionNotFound
	}
	return session, nil
}

func (s *MemoryStore) DeleteSession(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// DeleteExpiredSessions keeps the session map bounded; the cron
// scheduler calls it hourly.
func (s *MemoryStore) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for id, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed, nil
}
