package readiness

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"statusapi/internal/db"
)

// ErrDependencyUnavailable is returned when the backing stores never became
// reachable within the attempt budget. Callers treat it as fatal.
var ErrDependencyUnavailable = errors.New("dependencies unavailable")

// Database is the subset of *db.Client the gate probes.
type Database interface {
	Acquire(ctx context.Context) (db.Lease, error)
}

// Cache is the subset of *cache.Client the gate probes.
type Cache interface {
	Ping(ctx context.Context) error
}

// Gate blocks startup until Postgres and Redis both answer.
type Gate struct {
	DB          Database
	Cache       Cache
	MaxAttempts int
	Delay       time.Duration
	Log         *zap.Logger

	// Sleep waits between attempts. Defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error

	ready    atomic.Bool
	attempts atomic.Int64
}

func New(database Database, cache Cache, maxAttempts int, delay time.Duration, log *zap.Logger) *Gate {
	return &Gate{DB: database, Cache: cache, MaxAttempts: maxAttempts, Delay: delay, Log: log}
}

// Wait probes both dependencies up to MaxAttempts times, sleeping Delay
// between failed attempts. Only the first failure is logged.
func (g *Gate) Wait(ctx context.Context) error {
	maxAttempts := g.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	sleep := g.Sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	log := g.Log
	if log == nil {
		log = zap.NewNop()
	}

	var lastErr error
	for i := 1; i <= maxAttempts; i++ {
		g.attempts.Store(int64(i))
		lastErr = g.probe(ctx)
		if lastErr == nil {
			g.ready.Store(true)
			log.Info("dependencies ready", zap.Int("attempts", i))
			return nil
		}
		if i == 1 {
			log.Info("waiting for dependencies",
				zap.Error(lastErr),
				zap.Int("max_attempts", maxAttempts),
				zap.Duration("delay", g.Delay))
		}
		if i == maxAttempts {
			break
		}
		if err := sleep(ctx, g.Delay); err != nil {
			return fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
		}
	}
	return fmt.Errorf("%w after %d attempts: %w", ErrDependencyUnavailable, maxAttempts, lastErr)
}

// Ready reports whether Wait has succeeded. Once true it stays true.
func (g *Gate) Ready() bool {
	return g.ready.Load()
}

// Attempts is the number of probes the last Wait made.
func (g *Gate) Attempts() int {
	return int(g.attempts.Load())
}

func (g *Gate) probe(ctx context.Context) error {
	lease, err := g.DB.Acquire(ctx)
	if err != nil {
		return err
	}
	lease.Release()
	return g.Cache.Ping(ctx)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
