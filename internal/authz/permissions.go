package authz

import "prismwriting/api/internal/models"

// rolePermissions is the static role→permission table. SUPER_ADMIN is
// handled by wildcard in HasPermission and deliberately absent here.
var rolePermissions = map[models.UserRole][]string{
	models.RoleAdmin: {
		"user:create", "user:read", "user:update", "user:delete",
		"content:create", "content:read", "content:update", "content:delete",
		"project:create", "project:read", "project:update", "project:delete",
		"newsletter:read", "newsletter:manage", "newsletter:export",
		"analytics:read", "settings:update",
	},
	models.RoleEditor: {
		"content:create", "content:read", "content:update",
		"project:read", "project:update",
		"newsletter:read",
	},
	models.RoleMember: {
		"content:read", "content:create", "content:update",
		"project:read", "project:update",
		"newsletter:read",
	},
	models.RoleClient: {
		"content:read", "project:read",
	},
	models.RoleViewer: {
		"content:read",
	},
}

// HasPermission answers whether a role grants a permission. Unknown
// roles fail closed.
func HasPermission(role models.UserRole, permission string) bool {
	if role == models.RoleSuperAdmin {
		return true
	}
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// Permissions returns a copy of the permission list for a role, with
// SUPER_ADMIN reporting the wildcard.
func Permissions(role models.UserRole) []string {
	if role == models.RoleSuperAdmin {
		return []string{"*"}
	}
	perms := rolePermissions[role]
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}
