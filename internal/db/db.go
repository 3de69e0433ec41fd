package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is the pgx connection pool shared by the whole process.
type Pool = pgxpool.Pool

// Connect builds a connection pool for dsn. The pool dials lazily, so an
// unreachable server is reported by the first Acquire rather than here.
func Connect(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}
	return pool, nil
}

// Close closes the pool.
func Close(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}

// Client hands out Leases on pooled connections.
type Client struct {
	pool    *pgxpool.Pool
	acquire func(ctx context.Context) (conn, error)
}

func NewClient(pool *pgxpool.Pool) *Client {
	return &Client{
		pool: pool,
		acquire: func(ctx context.Context) (conn, error) {
			c, err := pool.Acquire(ctx)
			if err != nil {
				return nil, err
			}
			return c, nil
		},
	}
}

// Acquire borrows one connection from the pool. The caller owns the returned
// Lease and must Release it.
func (c *Client) Acquire(ctx context.Context) (Lease, error) {
	cn, err := c.acquire(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	return &lease{conn: cn}, nil
}

// Close closes the underlying pool.
func (c *Client) Close() {
	Close(c.pool)
}
