package middleware

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"prismwriting/api/internal/audit"
	"prismwriting/api/internal/authz"
	"prismwriting/api/internal/models"
	"prismwriting/api/internal/security"
	"prismwriting/api/internal/service"
)

const (
	// AuthPath receives soft failures; the original path rides along in
	// the redirect query for post-login return.
	AuthPath = "/auth"

	contextUserKey      = "current_user"
	contextWorkspaceKey = "workspace"
)

// skipPrefixes bypass the auth stages entirely: static assets, health
// checks and the explicitly public API routes.
var skipPrefixes = []string{
	"/favicon.ico",
	"/robots.txt",
	"/sitemap.xml",
	"/static/",
	"/assets/",
	"/api/health",
	QuotePath,

	// Credential issuance must be reachable without credentials.
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/refresh",
	"/api/auth/logout",
}

// Gate is the per-request authorization pipeline: classify the
// workspace, resolve the user, check workspace and role access, emit
// an audit event. Soft failures (no or dead token) redirect to the auth
// page; hard failures (wrong role, disabled account) answer 403 JSON.
// The gate itself never surfaces a 500: anything unexpected becomes a
// safe redirect.
//
// adminAPIKey, when configured, is an operator credential accepted as
// the bearer token on the admin API routes only.
func Gate(auth *service.AuthService, adminAPIKey string, auditor *audit.Logger, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error().
					Interface("error", r).
					Str("path", c.Request.URL.Path).
					Msg("gate panic")
				redirectToAuth(c, "system_error")
			}
		}()

		path := c.Request.URL.Path

		if skipAuth(path) {
			c.Next()
			return
		}

		workspace := authz.ClassifyPath(path)
		c.Set(contextWorkspaceKey, workspace)

		if !workspace.RequiresAuth() {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			redirectToAuth(c, "authentication_required")
			return
		}

		user, ok := adminKeyIdentity(adminAPIKey, token, path)
		if !ok {
			var err error
			user, err = auth.CurrentUser(c.Request.Context(), token)
			if err != nil {
				if errors.Is(err, service.ErrAccountDisabled) {
					forbidden(c, path)
					return
				}
				// No detail: expired session and bad signature look alike.
				redirectToAuth(c, "authentication_required")
				return
			}
		}

		if !authz.CheckWorkspaceAccess(user, workspace, path) {
			forbidden(c, path)
			return
		}

		c.Set(contextUserKey, user)
		c.Writer.Header().Set("X-User-Role", string(user.Role))
		c.Writer.Header().Set("X-Workspace", string(workspace))

		auditor.Emit(audit.Event{
			Type:      "access_granted",
			UserID:    user.ID,
			Workspace: string(workspace),
			Path:      path,
			IP:        ClientIP(c),
			UserAgent: c.GetHeader("User-Agent"),
		})

		c.Next()
	}
}

// adminKeyIdentity matches the bearer token against the operator API
// key and grants an ADMIN identity when it fits. The key is not a user
// credential: it only works under /api/admin/, and an unconfigured key
// matches nothing.
func adminKeyIdentity(adminAPIKey, token, path string) (models.AuthUser, bool) {
	if adminAPIKey == "" || !strings.HasPrefix(path, "/api/admin/") {
		return models.AuthUser{}, false
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(adminAPIKey)) != 1 {
		return models.AuthUser{}, false
	}
	return models.AuthUser{
		ID:     "admin-api-key",
		Role:   models.RoleAdmin,
		Status: models.StatusActive,
	}, true
}

func skipAuth(path string) bool {
	for _, prefix := range skipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// extractToken reads the bearer header first, then the shared access
// token cookie used for browser sessions.
func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}

	if cookie, err := c.Cookie(security.CookieAccessToken); err == nil {
		return cookie
	}
	return ""
}

func redirectToAuth(c *gin.Context, errCode string) {
	query := url.Values{}
	query.Set("error", errCode)
	query.Set("redirect", c.Request.URL.Path)
	c.Redirect(http.StatusFound, AuthPath+"?"+query.Encode())
	c.Abort()
}

func forbidden(c *gin.Context, path string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error":   "Access denied",
		"message": fmt.Sprintf("You don't have permission to access %s", path),
		"code":    http.StatusForbidden,
	})
}

// CurrentUser returns the authenticated user the gate stored on the
// context.
func CurrentUser(c *gin.Context) (models.AuthUser, bool) {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return models.AuthUser{}, false
	}
	user, ok := value.(models.AuthUser)
	return user, ok
}
