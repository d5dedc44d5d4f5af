package models

import "time"

type UserRole string

const (
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleEditor     UserRole = "EDITOR"
	RoleMember     UserRole = "MEMBER"
	RoleClient     UserRole = "CLIENT"
	RoleViewer     UserRole = "VIEWER"
)

// Valid reports whether the role belongs to the closed enumeration.
// Callers must treat anything else as deny.
func (r UserRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleMember, RoleClient, RoleViewer:
		return true
	}
	return false
}

type UserStatus string

const (
	StatusActive              UserStatus = "ACTIVE"
	StatusInactive            UserStatus = "INACTIVE"
	StatusSuspended           UserStatus = "SUSPENDED"
	StatusPendingVerification UserStatus = "PENDING_VERIFICATION"
)

func (s UserStatus) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusPendingVerification:
		return true
	}
	return false
}

// CanAuthenticate reports whether an account in this status may hold a
// live session. Unverified accounts are allowed in; suspended and
// inactive accounts are locked out. Login and per-request session
// resolution both consult this, so the two paths cannot drift.
func (s UserStatus) CanAuthenticate() bool {
	return s == StatusActive || s == StatusPendingVerification
}

type User struct {
	ID           string
	Email        string
	Username     *string
	FirstName    *string
	LastName     *string
	PasswordHash []byte
	Role         UserRole
	Status       UserStatus
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthUser is the externally visible view of a user. It never carries
// the password hash.
type AuthUser struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Username  *string    `json:"username,omitempty"`
	FirstName *string    `json:"firstName,omitempty"`
	LastName  *string    `json:"lastName,omitempty"`
	Role      UserRole   `json:"role"`
	Status    UserStatus `json:"status"`
}

func (u User) AuthView() AuthUser {
	return AuthUser{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		Status:    u.Status,
	}
}

// Session binds a token's embedded session id to an expiry. The stored
// session is the authority over whether a token is still honored.
type Session struct {
	ID           string
	UserID       string
	SessionToken string
	ExpiresAt    time.Time
	CreatedAt    time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
