package cache

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRefused = errors.New("connection refused")

func unreachable(t *testing.T) *Client {
	t.Helper()
	c := NewWithOptions(&redis.Options{
		Addr:       "cache.invalid:6379",
		MaxRetries: -1,
		Dialer: func(context.Context, string, string) (net.Conn, error) {
			return nil, errRefused
		},
	})
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestPingUnreachable(t *testing.T) {
	err := unreachable(t).Ping(context.Background())

	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "ping", cErr.Op)
	assert.ErrorIs(t, err, errRefused)
	assert.Contains(t, err.Error(), "cache ping: ")
}

func TestSetUnreachable(t *testing.T) {
	err := unreachable(t).Set(context.Background(), LastCallKey, "1704067200000")

	var cErr *Error
	require.ErrorAs(t, err, &cErr)
	assert.Equal(t, "set last_call", cErr.Op)
	assert.ErrorIs(t, err, errRefused)
}

func TestNewSetsOptions(t *testing.T) {
	c := New("localhost:6380", "secret", 2)
	defer c.Close()

	opts := c.R.Options()
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)
}
