package redis

import (
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachable(t *testing.T) *Client {
	t.Helper()
	c := NewFromOptions(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSetWithTTL_RejectsNonPositiveTTL(t *testing.T) {
	c := unreachable(t)

	for _, ttl := range []time.Duration{0, -time.Second} {
		err := c.SetWithTTL(t.Context(), "revoked:abc", "1", ttl)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ttl must be positive")
	}
}

func TestClient_UnreachableServer(t *testing.T) {
	c := unreachable(t)

	assert.Error(t, c.Ping(t.Context()))

	_, err := c.Exists(t.Context(), "revoked:abc")
	assert.Error(t, err)

	stats := c.PoolStats()
	assert.Zero(t, stats.IdleConns)
}
