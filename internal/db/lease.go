package db

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	queryNow  = "SELECT NOW()"
	queryPing = "SELECT 1"
)

// Lease is an exclusively owned pooled connection.
type Lease interface {
	// Now returns the database server's current time.
	Now(ctx context.Context) (time.Time, error)
	// Ping runs a trivial liveness query.
	Ping(ctx context.Context) error
	// Release returns the connection to the pool. Calls after the first are no-ops.
	Release()
}

// conn is the part of *pgxpool.Conn a lease uses.
type conn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Release()
}

type lease struct {
	conn conn
	once sync.Once
}

func (l *lease) Now(ctx context.Context) (time.Time, error) {
	var now time.Time
	if err := l.conn.QueryRow(ctx, queryNow).Scan(&now); err != nil {
		return time.Time{}, &QueryError{Query: queryNow, Err: err}
	}
	return now, nil
}

func (l *lease) Ping(ctx context.Context) error {
	var one int
	if err := l.conn.QueryRow(ctx, queryPing).Scan(&one); err != nil {
		return &QueryError{Query: queryPing, Err: err}
	}
	return nil
}

func (l *lease) Release() {
	l.once.Do(l.conn.Release)
}
