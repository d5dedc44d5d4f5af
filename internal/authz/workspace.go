package authz

import (
	"strings"

	"prismwriting/api/internal/models"
)

// Workspace is a logical partition of the application used to scope
// authorization rules.
type Workspace string

const (
	WorkspacePublic Workspace = "public"
	WorkspaceMember Workspace = "member"
	WorkspaceClient Workspace = "client"
	WorkspaceAdmin  Workspace = "admin"
	WorkspaceAPI    Workspace = "api"
)

var (
	memberPrefixes = []string{"/portal", "/dashboard", "/projects", "/files", "/resources"}
	adminPrefixes  = []string{"/admin", "/users", "/settings", "/analytics"}
)

// ClassifyPath maps a URL path to exactly one workspace. Classification
// is total: anything unrecognized is public.
func ClassifyPath(path string) Workspace {
	if strings.HasPrefix(path, "/api/") || path == "/api" {
		return WorkspaceAPI
	}
	for _, p := range adminPrefixes {
		if strings.HasPrefix(path, p) {
			return WorkspaceAdmin
		}
	}
	if strings.HasPrefix(path, "/client-") {
		return WorkspaceClient
	}
	for _, p := range memberPrefixes {
		if strings.HasPrefix(path, p) {
			return WorkspaceMember
		}
	}
	return WorkspacePublic
}

// RequiresAuth reports whether a workspace admits anonymous requests.
func (w Workspace) RequiresAuth() bool {
	return w != WorkspacePublic
}

// CheckWorkspaceAccess decides whether a user may enter a workspace.
// SUPER_ADMIN bypasses all checks; everything unrecognized is denied.
func CheckWorkspaceAccess(user models.AuthUser, workspace Workspace, path string) bool {
	if !user.Role.Valid() {
		return false
	}
	if user.Role == models.RoleSuperAdmin {
		return true
	}

	switch workspace {
	case WorkspaceMember:
		return user.Role == models.RoleAdmin || user.Role == models.RoleMember
	case WorkspaceClient:
		return user.Role == models.RoleAdmin || user.Role == models.RoleClient
	case WorkspaceAdmin:
		return user.Role == models.RoleAdmin
	case WorkspaceAPI:
		return checkAPIAccess(user.Role, path)
	case WorkspacePublic:
		return true
	}
	return false
}

// checkAPIAccess scopes /api routes by prefix. Routes outside the
// admin/member/client prefixes admit any authenticated known role.
func checkAPIAccess(role models.UserRole, path string) bool {
	switch {
	case strings.HasPrefix(path, "/api/admin/"):
		return role == models.RoleAdmin
	case strings.HasPrefix(path, "/api/member/"):
		return role == models.RoleAdmin || role == models.RoleMember
	case strings.HasPrefix(path, "/api/client/"):
		return role == models.RoleAdmin || role == models.RoleClient
	}
	return role.Valid()
}
