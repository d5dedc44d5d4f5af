package audit

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestEmitAppendsToStream(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	auditor := NewLogger(client, zerolog.Nop())
	auditor.Emit(Event{
		Type:      "access_granted",
		UserID:    "u1",
		Workspace: "admin",
		Path:      "/admin/users",
		IP:        "1.2.3.4",
	})

	// Stream appends happen off the request path.
	assert.Eventually(t, func() bool {
		entries, err := mr.Stream(Stream)
		return err == nil && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestEmitWithoutRedis(t *testing.T) {
	auditor := NewLogger(nil, zerolog.Nop())
	// Must not panic or block with no stream backend.
	auditor.Emit(Event{Type: "access_granted", UserID: "u1"})
}
