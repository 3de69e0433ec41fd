package cache

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// LastCallKey holds the Unix millisecond timestamp of the latest /api/users call.
const LastCallKey = "last_call"

// Client is a thin wrapper over a go-redis client.
type Client struct{ R *redis.Client }

func New(addr, password string, db int) *Client {
	return NewWithOptions(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewWithOptions(opts *redis.Options) *Client {
	return &Client{R: redis.NewClient(opts)}
}

// Set overwrites key with value, without expiry.
func (c *Client) Set(ctx context.Context, key, value string) error {
	if err := c.R.Set(ctx, key, value, 0).Err(); err != nil {
		return &Error{Op: "set " + key, Err: err}
	}
	return nil
}

func (c *Client) Ping(ctx context.Context) error {
	if err := c.R.Ping(ctx).Err(); err != nil {
		return &Error{Op: "ping", Err: err}
	}
	return nil
}

func (c *Client) Close() error {
	return c.R.Close()
}

// Error is returned by every failed cache operation.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string { return "cache " + e.Op + ": " + e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }
