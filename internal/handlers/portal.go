package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"prismwriting/api/internal/middleware"
	"prismwriting/api/internal/models"
)

// Project rows shown on the member and client dashboards. Display-only
// demo data: the portal has no real project pipeline behind it.
type demoProject struct {
	ID                   string    `json:"id"`
	Title                string    `json:"title"`
	Status               string    `json:"status"`
	ClientID             string    `json:"clientId"`
	Type                 string    `json:"type"`
	Priority             string    `json:"priority"`
	Deadline             time.Time `json:"deadline"`
	CompletionPercentage int       `json:"completionPercentage"`
	CreatedAt            time.Time `json:"createdAt"`
}

type demoClient struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Company     string  `json:"company"`
	TotalBudget float64 `json:"totalBudget"`
	Status      string  `json:"status"`
}

func demoProjects() []demoProject {
	return []demoProject{
		{
			ID:                   "proj_001",
			Title:                "Technical Documentation Project",
			Status:               "active",
			ClientID:             "client_001",
			Type:                 "technical-writing",
			Priority:             "high",
			Deadline:             time.Date(2026, time.October, 15, 0, 0, 0, 0, time.UTC),
			CompletionPercentage: 75,
			CreatedAt:            time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:                   "proj_002",
			Title:                "Marketing Content Creation",
			Status:               "completed",
			ClientID:             "client_002",
			Type:                 "marketing-content",
			Priority:             "medium",
			Deadline:             time.Date(2026, time.July, 25, 0, 0, 0, 0, time.UTC),
			CompletionPercentage: 100,
			CreatedAt:            time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			ID:                   "proj_003",
			Title:                "User Manual Development",
			Status:               "planning",
			ClientID:             "client_003",
			Type:                 "documentation",
			Priority:             "low",
			Deadline:             time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
			CompletionPercentage: 15,
			CreatedAt:            time.Date(2026, time.August, 10, 0, 0, 0, 0, time.UTC),
		},
	}
}

func demoClients() []demoClient {
	return []demoClient{
		{ID: "client_001", Name: "Tech Corp", Email: "contact@techcorp.com", Company: "Tech Corp", TotalBudget: 15000, Status: "active"},
		{ID: "client_002", Name: "Marketing Plus", Email: "hello@marketingplus.com", Company: "Marketing Plus", TotalBudget: 8500, Status: "active"},
		{ID: "client_003", Name: "StartUp Inc", Email: "info@startupinc.com", Company: "StartUp Inc", TotalBudget: 5000, Status: "pending"},
	}
}

func (h HandlerSet) MemberProjects(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"projects": demoProjects()})
}

// ClientProjects shows the client-visible slice: clients see their own
// rows, staff roles see everything.
func (h HandlerSet) ClientProjects(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	projects := demoProjects()
	if user.Role == models.RoleClient {
		visible := make([]demoProject, 0, len(projects))
		for _, p := range projects {
			if p.Status != "planning" {
				visible = append(visible, p)
			}
		}
		projects = visible
	}

	c.JSON(http.StatusOK, gin.H{"projects": projects})
}
