package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"prismwriting/api/internal/config"
	"prismwriting/api/internal/service"
	"prismwriting/api/internal/store"
)

type HandlerSet struct {
	log   zerolog.Logger
	cfg   *config.AppConfig
	auth  *service.AuthService
	store store.CredentialStore
	cache *redis.Client
}

func NewHandlerSet(log zerolog.Logger, cfg *config.AppConfig, auth *service.AuthService, credStore store.CredentialStore, cache *redis.Client) HandlerSet {
	return HandlerSet{
		log:   log,
		cfg:   cfg,
		auth:  auth,
		store: credStore,
		cache: cache,
	}
}

// Register wires routes on the engine root. Route-level guards are
// deliberately absent: the gate middleware classifies every path and
// enforces workspace access before a handler runs.
func (h HandlerSet) Register(router *gin.Engine) {
	api := router.Group("/api")

	api.GET("/health", h.Health)
	api.POST("/translation-quote", h.TranslationQuote)

	auth := api.Group("/auth")
	auth.POST("/login", h.Login)
	auth.POST("/register", h.RegisterUser)
	auth.POST("/refresh", h.Refresh)
	auth.POST("/logout", h.Logout)
	auth.GET("/me", h.Me)

	admin := api.Group("/admin")
	admin.GET("/users", h.AdminListUsers)
	admin.GET("/overview", h.AdminOverview)
	admin.GET("/clients", h.AdminListClients)

	member := api.Group("/member")
	member.GET("/projects", h.MemberProjects)

	client := api.Group("/client")
	client.GET("/projects", h.ClientProjects)
}
