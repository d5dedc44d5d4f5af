package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"prismwriting/api/internal/models"
)

func TestClassifyPath(t *testing.T) {
	tests := []struct {
		path string
		want Workspace
	}{
		{"/", WorkspacePublic},
		{"/services", WorkspacePublic},
		{"/translation-quote", WorkspacePublic},
		{"/portal", WorkspaceMember},
		{"/dashboard/activity", WorkspaceMember},
		{"/projects/123", WorkspaceMember},
		{"/files", WorkspaceMember},
		{"/resources/templates", WorkspaceMember},
		{"/client-acme", WorkspaceClient},
		{"/client-acme/deliverables", WorkspaceClient},
		{"/admin", WorkspaceAdmin},
		{"/admin/users", WorkspaceAdmin},
		{"/users/42", WorkspaceAdmin},
		{"/settings", WorkspaceAdmin},
		{"/analytics", WorkspaceAdmin},
		{"/api", WorkspaceAPI},
		{"/api/health", WorkspaceAPI},
		{"/api/admin/users", WorkspaceAPI},
		{"", WorkspacePublic},
		{"/completely/unknown", WorkspacePublic},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyPath(tt.path), "path %q", tt.path)
	}
}

func TestRequiresAuth(t *testing.T) {
	assert.False(t, WorkspacePublic.RequiresAuth())
	for _, w := range []Workspace{WorkspaceMember, WorkspaceClient, WorkspaceAdmin, WorkspaceAPI} {
		assert.True(t, w.RequiresAuth(), "workspace %s", w)
	}
}

func TestCheckWorkspaceAccess(t *testing.T) {
	user := func(role models.UserRole) models.AuthUser {
		return models.AuthUser{ID: "u1", Email: "u@example.com", Role: role}
	}

	tests := []struct {
		name      string
		role      models.UserRole
		workspace Workspace
		path      string
		want      bool
	}{
		{"super admin enters admin", models.RoleSuperAdmin, WorkspaceAdmin, "/admin", true},
		{"super admin enters api admin", models.RoleSuperAdmin, WorkspaceAPI, "/api/admin/users", true},
		{"admin enters admin", models.RoleAdmin, WorkspaceAdmin, "/admin", true},
		{"admin enters member", models.RoleAdmin, WorkspaceMember, "/portal", true},
		{"admin enters client", models.RoleAdmin, WorkspaceClient, "/client-acme", true},
		{"member enters member", models.RoleMember, WorkspaceMember, "/portal", true},
		{"member denied admin", models.RoleMember, WorkspaceAdmin, "/admin", false},
		{"member denied client", models.RoleMember, WorkspaceClient, "/client-acme", false},
		{"client enters client", models.RoleClient, WorkspaceClient, "/client-acme", true},
		{"client denied member", models.RoleClient, WorkspaceMember, "/portal", false},
		{"editor denied admin", models.RoleEditor, WorkspaceAdmin, "/admin", false},
		{"viewer enters public", models.RoleViewer, WorkspacePublic, "/", true},
		{"unknown role fails closed", models.UserRole("ROOT"), WorkspacePublic, "/", false},
		{"empty role fails closed", models.UserRole(""), WorkspaceMember, "/portal", false},
		{"member api member route", models.RoleMember, WorkspaceAPI, "/api/member/projects", true},
		{"member denied api admin route", models.RoleMember, WorkspaceAPI, "/api/admin/users", false},
		{"client api client route", models.RoleClient, WorkspaceAPI, "/api/client/projects", true},
		{"client denied api member route", models.RoleClient, WorkspaceAPI, "/api/member/projects", false},
		{"viewer allowed plain api route", models.RoleViewer, WorkspaceAPI, "/api/profile", true},
		{"unknown workspace fails closed", models.RoleAdmin, Workspace("mystery"), "/x", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckWorkspaceAccess(user(tt.role), tt.workspace, tt.path))
		})
	}
}
