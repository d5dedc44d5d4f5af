package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Result reports one fixed-window decision.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
}

// Limiter is a fixed-window counter keyed by caller-supplied key
// (client IP in practice). Redis is the primary counter so multiple
// instances share state; a mutex-guarded in-process table takes over
// when redis is down rather than failing the request path.
type Limiter struct {
	client *redis.Client
	window time.Duration
	log    zerolog.Logger

	mu      sync.Mutex
	local   map[string]*windowEntry
	lastGC  time.Time
	nowFunc func() time.Time
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

func New(client *redis.Client, window time.Duration, log zerolog.Logger) *Limiter {
	return &Limiter{
		client:  client,
		window:  window,
		log:     log,
		local:   make(map[string]*windowEntry),
		nowFunc: time.Now,
	}
}

// Allow counts one request against the key's current window.
func (l *Limiter) Allow(ctx context.Context, key string, limit int) Result {
	if l.client != nil {
		res, err := l.allowRedis(ctx, key, limit)
		if err == nil {
			return res
		}
		l.log.Warn().Err(err).Str("key", key).Msg("redis rate limit failed, using local counter")
	}
	return l.allowLocal(key, limit)
}

func (l *Limiter) allowRedis(ctx context.Context, key string, limit int) (Result, error) {
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// NX keeps the original window boundary; a plain EXPIRE would slide
	// it on every request.
	pipe.ExpireNX(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	count := int(incr.Val())
	remaining := limit - count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: count <= limit, Limit: limit, Remaining: remaining}, nil
}

func (l *Limiter) allowLocal(key string, limit int) Result {
	now := l.nowFunc()

	l.mu.Lock()
	defer l.mu.Unlock()

	// Opportunistic prune keeps the table bounded without a background
	// goroutine.
	if now.Sub(l.lastGC) > l.window {
		for k, e := range l.local {
			if !e.resetAt.After(now) {
				delete(l.local, k)
			}
		}
		l.lastGC = now
	}

	entry, ok := l.local[key]
	if !ok || !entry.resetAt.After(now) {
		entry = &windowEntry{resetAt: now.Add(l.window)}
		l.local[key] = entry
	}
	entry.count++

	remaining := limit - entry.count
	if remaining < 0 {
		remaining = 0
	}
	return Result{Allowed: entry.count <= limit, Limit: limit, Remaining: remaining}
}

// Window exposes the configured window length for Retry-After headers.
func (l *Limiter) Window() time.Duration {
	return l.window
}
