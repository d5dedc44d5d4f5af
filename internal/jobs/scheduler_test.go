package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prismwriting/api/internal/audit"
	"prismwriting/api/internal/ids"
	"prismwriting/api/internal/models"
	"prismwriting/api/internal/store"
)

func TestPruneSessions(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	now := time.Now()

	require.NoError(t, mem.CreateSession(ctx, models.Session{
		ID: ids.New(), UserID: "u1", SessionToken: ids.New(),
		ExpiresAt: now.Add(-time.Hour), CreatedAt: now.Add(-2 * time.Hour),
	}))
	live := models.Session{
		ID: ids.New(), UserID: "u1", SessionToken: ids.New(),
		ExpiresAt: now.Add(time.Hour), CreatedAt: now,
	}
	require.NoError(t, mem.CreateSession(ctx, live))

	s := NewScheduler(mem, nil, zerolog.Nop())
	s.pruneSessions()

	_, err := mem.GetSessionByID(ctx, live.ID)
	assert.NoError(t, err)

	removed, err := mem.DeleteExpiredSessions(ctx, now)
	require.NoError(t, err)
	assert.Zero(t, removed, "prune already removed the expired session")
}

func TestTrimAuditStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, client.XAdd(ctx, &redis.XAddArgs{
			Stream: audit.Stream,
			Values: map[string]any{"type": "access_granted"},
		}).Err())
	}

	s := NewScheduler(store.NewMemoryStore(), client, zerolog.Nop())
	// Trim must not error with entries below the cap.
	s.trimAuditStream()

	entries, err := mr.Stream(audit.Stream)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestTrimAuditStreamWithoutRedis(t *testing.T) {
	s := NewScheduler(store.NewMemoryStore(), nil, zerolog.Nop())
	s.trimAuditStream()
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler(store.NewMemoryStore(), nil, zerolog.Nop())
	require.NoError(t, s.Start())
	s.Stop()
}
