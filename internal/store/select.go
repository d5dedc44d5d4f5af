package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"prismwriting/api/internal/config"
	"prismwriting/api/internal/database"
)

// Select picks the credential store backend exactly once, at startup.
// Mode "auto" probes postgres a single time; if the probe fails the
// process runs on the transient store from then on. The backend never
// flips at request time, so an infra blip mid-flight cannot silently
// change where credentials live.
func Select(ctx context.Context, cfg *config.AppConfig, logger zerolog.Logger) (CredentialStore, error) {
	switch cfg.Store.Mode {
	case "postgres":
		pool, err := database.NewPostgresPool(ctx, cfg.Postgres)
		if err != nil {
			return nil, fmt.Errorf("postgres store: %w", err)
		}
		return NewPostgresStore(pool), nil

	case "memory":
		return newSeededMemoryStore(cfg, logger)

	case "auto":
		probeCtx, cancel := context.WithTimeout(ctx, cfg.Store.ProbeTimeout)
		defer cancel()

		pool, err := database.NewPostgresPool(probeCtx, cfg.Postgres)
		if err == nil {
			logger.Info().Msg("credential store: postgres")
			return NewPostgresStore(pool), nil
		}

		logger.Warn().Err(err).Msg("postgres unavailable, using transient in-memory credential store")
		return newSeededMemoryStore(cfg, logger)

	default:
		return nil, fmt.Errorf("unknown store mode %q", cfg.Store.Mode)
	}
}

func newSeededMemoryStore(cfg *config.AppConfig, logger zerolog.Logger) (CredentialStore, error) {
	mem := NewMemoryStore()
	if cfg.Store.SeedDemo {
		if err := mem.SeedDemoAccounts(); err != nil {
			return nil, fmt.Errorf("memory store: %w", err)
		}
		logger.Info().Msg("seeded demo accounts into memory store")
	}
	return mem, nil
}
