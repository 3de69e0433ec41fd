package readiness

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"statusapi/internal/db"
)

var errRefused = errors.New("connection refused")

type stubLease struct{ released *atomic.Int64 }

func (l stubLease) Now(context.Context) (time.Time, error) { return time.Time{}, nil }
func (l stubLease) Ping(context.Context) error             { return nil }
func (l stubLease) Release()                               { l.released.Add(1) }

// flakyDB fails Acquire until it has been called okFrom times.
type flakyDB struct {
	okFrom   int64
	calls    atomic.Int64
	acquired atomic.Int64
	released atomic.Int64
}

func (d *flakyDB) Acquire(context.Context) (db.Lease, error) {
	n := d.calls.Add(1)
	if d.okFrom == 0 || n < d.okFrom {
		return nil, &db.ConnectionError{Err: errRefused}
	}
	d.acquired.Add(1)
	return stubLease{released: &d.released}, nil
}

type stubCache struct {
	err   error
	calls atomic.Int64
}

func (c *stubCache) Ping(context.Context) error {
	c.calls.Add(1)
	return c.err
}

type sleepRecorder struct{ delays []time.Duration }

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return nil
}

func newGate(database Database, cache Cache, attempts int) (*Gate, *sleepRecorder, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	rec := &sleepRecorder{}
	g := New(database, cache, attempts, time.Second, zap.New(core))
	g.Sleep = rec.sleep
	return g, rec, logs
}

func TestWaitSucceedsOnThirdAttempt(t *testing.T) {
	database := &flakyDB{okFrom: 3}
	cache := &stubCache{}
	g, rec, logs := newGate(database, cache, 30)

	require.False(t, g.Ready())
	require.NoError(t, g.Wait(context.Background()))

	assert.True(t, g.Ready())
	assert.Equal(t, 3, g.Attempts())
	assert.Equal(t, []time.Duration{time.Second, time.Second}, rec.delays)
	assert.Equal(t, int64(1), cache.calls.Load())
	assert.Equal(t, database.acquired.Load(), database.released.Load())
	assert.Equal(t, 1, logs.FilterMessage("waiting for dependencies").Len())
}

func TestWaitExhaustsAttempts(t *testing.T) {
	database := &flakyDB{}
	g, rec, logs := newGate(database, &stubCache{}, 5)

	err := g.Wait(context.Background())

	require.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.ErrorIs(t, err, errRefused)
	assert.False(t, g.Ready())
	assert.Equal(t, 5, g.Attempts())
	assert.Equal(t, int64(5), database.calls.Load())
	assert.Len(t, rec.delays, 4)
	assert.Equal(t, 1, logs.FilterMessage("waiting for dependencies").Len())
}

func TestWaitCacheFailureReleasesLease(t *testing.T) {
	database := &flakyDB{okFrom: 1}
	cache := &stubCache{err: errRefused}
	g, _, _ := newGate(database, cache, 3)

	err := g.Wait(context.Background())

	require.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.Equal(t, int64(3), database.acquired.Load())
	assert.Equal(t, int64(3), database.released.Load())
	assert.Equal(t, int64(3), cache.calls.Load())
}

func TestWaitFirstAttemptSuccessDoesNotLogWaiting(t *testing.T) {
	g, rec, logs := newGate(&flakyDB{okFrom: 1}, &stubCache{}, 30)

	require.NoError(t, g.Wait(context.Background()))

	assert.Empty(t, rec.delays)
	assert.Zero(t, logs.FilterMessage("waiting for dependencies").Len())
	assert.Equal(t, 1, logs.FilterMessage("dependencies ready").Len())
}

func TestWaitMaxAttemptsFloor(t *testing.T) {
	database := &flakyDB{}
	g, _, _ := newGate(database, &stubCache{}, 0)

	require.Error(t, g.Wait(context.Background()))
	assert.Equal(t, int64(1), database.calls.Load())
}

func TestWaitStopsOnContextCancel(t *testing.T) {
	database := &flakyDB{}
	g := New(database, &stubCache{}, 30, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		for database.calls.Load() == 0 {
			time.Sleep(time.Millisecond)
		}
		cancel()
	}()

	err := g.Wait(ctx)
	require.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(1), database.calls.Load())
}
