package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"prismwriting/api/internal/audit"
	"prismwriting/api/internal/cache"
	"prismwriting/api/internal/config"
	"prismwriting/api/internal/handlers"
	"prismwriting/api/internal/jobs"
	"prismwriting/api/internal/log"
	"prismwriting/api/internal/ratelimit"
	"prismwriting/api/internal/security"
	"prismwriting/api/internal/server"
	"prismwriting/api/internal/service"
	"prismwriting/api/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New(cfg.Environment)

	ctx := context.Background()

	credStore, err := store.Select(ctx, cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to select credential store")
	}

	// Redis carries the shared rate-limit counters and the audit
	// stream. The service degrades to in-process equivalents when it is
	// not reachable.
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, rate limiting and audit run in-process only")
		redisClient = nil
	}

	tokens := security.NewTokenService(
		cfg.Security.JWTSecret,
		cfg.Security.AccessTokenTTL,
		cfg.Security.RefreshTokenTTL,
		cfg.Security.RememberTokenTTL,
	)

	authService := service.NewAuthService(credStore, tokens, cfg, logger)
	limiter := ratelimit.New(redisClient, cfg.RateLimit.Window, logger)
	auditor := audit.NewLogger(redisClient, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, authService, credStore, redisClient)
	engine := server.NewEngine(cfg, logger, authService, limiter, auditor, handlerSet)
	httpServer := server.NewHTTPServer(cfg, logger, engine)

	scheduler := jobs.NewScheduler(credStore, redisClient, logger)
	if err := scheduler.Start(); err != nil {
		logger.Error().Err(err).Msg("scheduler start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, scheduler, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, scheduler *jobs.Scheduler, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	scheduler.Stop()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
