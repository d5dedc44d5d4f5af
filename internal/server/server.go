package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"prismwriting/api/internal/audit"
	"prismwriting/api/internal/config"
	"prismwriting/api/internal/handlers"
	"prismwriting/api/internal/middleware"
	"prismwriting/api/internal/ratelimit"
	"prismwriting/api/internal/service"
)

type HTTPServer struct {
	engine *gin.Engine
	server *http.Server
	log    zerolog.Logger
	cfg    *config.AppConfig
}

// NewEngine assembles the middleware pipeline in gate order: security
// headers first so every response class carries them, then rate
// limiting and abuse checks (independent of auth), then the
// authorization gate, then routes.
func NewEngine(
	cfg *config.AppConfig,
	log zerolog.Logger,
	auth *service.AuthService,
	limiter *ratelimit.Limiter,
	auditor *audit.Logger,
	handlerSet handlers.HandlerSet,
) *gin.Engine {
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.RedirectTrailingSlash = true

	engine.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		// Headers before CORS: preflights abort inside the CORS layer
		// and must already be hardened.
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.AllowCORSOrigins),
		middleware.RateLimit(limiter, cfg.RateLimit),
		middleware.AbuseGuard(),
		middleware.Gate(auth, cfg.Security.AdminAPIKey, auditor, log),
	)

	handlerSet.Register(engine)

	return engine
}

func NewHTTPServer(cfg *config.AppConfig, log zerolog.Logger, engine *gin.Engine) *HTTPServer {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	return &HTTPServer{
		engine: engine,
		server: srv,
		log:    log,
		cfg:    cfg,
	}
}

func (s *HTTPServer) Start() error {
	s.log.Info().
		Str("addr", s.server.Addr).
		Msg("http server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen and serve: %w", err)
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("http server shutting down")
	return s.server.Shutdown(ctx)
}
