package audit

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Stream is the redis stream audit events are appended to. The jobs
// scheduler trims it daily.
const Stream = "audit:access"

// Event records one granted access decision.
type Event struct {
	Type      string
	UserID    string
	Workspace string
	Path      string
	IP        string
	UserAgent string
	Timestamp time.Time
}

// Logger emits audit events. Emission is fire-and-forget: a dead redis
// or a full stream must never block or fail the request being audited.
type Logger struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewLogger(client *redis.Client, log zerolog.Logger) *Logger {
	return &Logger{client: client, log: log}
}

func (a *Logger) Emit(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	a.log.Info().
		Str("audit", event.Type).
		Str("user_id", event.UserID).
		Str("workspace", event.Workspace).
		Str("path", event.Path).
		Str("ip", event.IP).
		Time("at", event.Timestamp).
		Msg("access audit")

	if a.client == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		err := a.client.XAdd(ctx, &redis.XAddArgs{
			Stream: Stream,
			Values: map[string]any{
				"type":      event.Type,
				"userId":    event.UserID,
				"workspace": event.Workspace,
				"path":      event.Path,
				"ip":        event.IP,
				"userAgent": event.UserAgent,
				"at":        event.Timestamp.Format(time.RFC3339),
			},
		}).Err()
		if err != nil {
			a.log.Warn().Err(err).Msg("audit stream append failed")
		}
	}()
}
