package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prismwriting/api/internal/authz"
	"prismwriting/api/internal/models"
)

type adminUserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Username    *string    `json:"username,omitempty"`
	FirstName   *string    `json:"firstName,omitempty"`
	LastName    *string    `json:"lastName,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	Permissions []string   `json:"permissions"`
	LastLogin   *time.Time `json:"lastLogin,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

func (h HandlerSet) AdminListUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("list users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list users"})
		return
	}

	items := make([]adminUserResponse, 0, len(users))
	for _, user := range users {
		items = append(items, adminUserResponse{
			ID:          user.ID,
			Email:       user.Email,
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Role:        string(user.Role),
			Status:      string(user.Status),
			Permissions: authz.Permissions(user.Role),
			LastLogin:   user.LastLogin,
			CreatedAt:   user.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"users": items})
}

// AdminOverview aggregates the dashboard counters the admin landing
// page renders.
func (h HandlerSet) AdminOverview(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("overview users failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build overview"})
		return
	}

	var members, active int
	for _, user := range users {
		if user.Role == models.RoleMember {
			members++
		}
		if user.Status == models.StatusActive {
			active++
		}
	}

	projects := demoProjects()
	var activeProjects, completedProjects, overdueProjects int
	var completionSum float64
	now := time.Now()
	for _, p := range projects {
		switch p.Status {
		case "active":
			activeProjects++
		case "completed":
			completedProjects++
		}
		if p.Status != "completed" && p.Deadline.Before(now) {
			overdueProjects++
		}
		completionSum += float64(p.CompletionPercentage)
	}

	avgCompletion := 0.0
	if len(projects) > 0 {
		avgCompletion = completionSum / float64(len(projects))
	}

	c.JSON(http.StatusOK, gin.H{
		"totalMembers":      members,
		"activeUsers":       active,
		"totalUsers":        len(users),
		"totalProjects":     len(projects),
		"totalClients":      len(demoClients()),
		"activeProjects":    activeProjects,
		"completedProjects": completedProjects,
		"overdueProjects":   overdueProjects,
		"avgCompletionRate": avgCompletion,
		"storeBackend":      h.store.Name(),
	})
}

func (h HandlerSet) AdminListClients(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"clients": demoClients()})
}
