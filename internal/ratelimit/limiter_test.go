package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowRedisFixedWindow(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := New(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	const limit = 3
	for i := 1; i <= limit; i++ {
		res := l.Allow(ctx, "ip:1.2.3.4", limit)
		assert.True(t, res.Allowed, "request %d", i)
		assert.Equal(t, limit-i, res.Remaining, "request %d", i)
	}

	res := l.Allow(ctx, "ip:1.2.3.4", limit)
	assert.False(t, res.Allowed)
	assert.Equal(t, 0, res.Remaining)
	assert.Equal(t, limit, res.Limit)

	// A different key has its own window.
	res = l.Allow(ctx, "ip:5.6.7.8", limit)
	assert.True(t, res.Allowed)
	assert.Equal(t, limit-1, res.Remaining)

	// The counter resets once the window elapses.
	mr.FastForward(61 * time.Second)
	res = l.Allow(ctx, "ip:1.2.3.4", limit)
	assert.True(t, res.Allowed)
}

func TestAllowRedisKeepsWindowBoundary(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := New(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	l.Allow(ctx, "ip:1.2.3.4", 10)
	mr.FastForward(40 * time.Second)
	// The second hit must not extend the original 60s window.
	l.Allow(ctx, "ip:1.2.3.4", 10)
	ttl := mr.TTL("ratelimit:ip:1.2.3.4")
	assert.LessOrEqual(t, ttl, 20*time.Second)
}

func TestAllowLocalFallback(t *testing.T) {
	// No redis client at all: the local counter carries the decision.
	l := New(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	l.nowFunc = func() time.Time { return now }

	const limit = 2
	assert.True(t, l.Allow(ctx, "ip:1.2.3.4", limit).Allowed)
	assert.True(t, l.Allow(ctx, "ip:1.2.3.4", limit).Allowed)
	assert.False(t, l.Allow(ctx, "ip:1.2.3.4", limit).Allowed)

	// Window rollover starts a fresh count.
	now = now.Add(61 * time.Second)
	res := l.Allow(ctx, "ip:1.2.3.4", limit)
	assert.True(t, res.Allowed)
	assert.Equal(t, limit-1, res.Remaining)
}

func TestAllowFallsBackWhenRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	l := New(client, time.Minute, zerolog.Nop())
	ctx := context.Background()

	require.True(t, l.Allow(ctx, "ip:1.2.3.4", 2).Allowed)

	// Kill redis; decisions keep flowing from the local table.
	mr.Close()
	assert.True(t, l.Allow(ctx, "ip:1.2.3.4", 2).Allowed)
	assert.True(t, l.Allow(ctx, "ip:1.2.3.4", 2).Allowed)
	assert.False(t, l.Allow(ctx, "ip:1.2.3.4", 2).Allowed)
}

func TestLocalTablePrunes(t *testing.T) {
	l := New(nil, time.Minute, zerolog.Nop())
	ctx := context.Background()

	now := time.Now()
	l.nowFunc = func() time.Time { return now }

	l.Allow(ctx, "ip:a", 5)
	l.Allow(ctx, "ip:b", 5)

	now = now.Add(2 * time.Minute)
	l.Allow(ctx, "ip:c", 5)

	l.mu.Lock()
	defer l.mu.Unlock()
	assert.NotContains(t, l.local, "ip:a")
	assert.NotContains(t, l.local, "ip:b")
	assert.Contains(t, l.local, "ip:c")
}

func TestWindow(t *testing.T) {
	l := New(nil, 90*time.Second, zerolog.Nop())
	assert.Equal(t, 90*time.Second, l.Window())
}
