package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"statusapi/internal/cache"
	"statusapi/internal/db"
)

// Database hands out leases on pooled connections.
type Database interface {
	Acquire(ctx context.Context) (db.Lease, error)
}

// Cache is the key-value store used by the handlers.
type Cache interface {
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
}

// Handler serves the HTTP endpoints.
type Handler struct {
	DB    Database
	Cache Cache
	Log   *zap.Logger

	// Now is the wall clock used for the last_call value.
	Now func() time.Time
}

func New(database Database, c Cache, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handler{DB: database, Cache: c, Log: log, Now: time.Now}
}

func (h *Handler) logger(r *http.Request) *zap.Logger {
	if id := middleware.GetReqID(r.Context()); id != "" {
		return h.Log.With(zap.String("request_id", id))
	}
	return h.Log
}

// causeMessage strips the operation prefix from dependency errors so clients
// only see the underlying message.
func causeMessage(err error) string {
	var (
		connErr  *db.ConnectionError
		queryErr *db.QueryError
		cacheErr *cache.Error
	)
	switch {
	case errors.As(err, &connErr):
		return connErr.Err.Error()
	case errors.As(err, &queryErr):
		return queryErr.Err.Error()
	case errors.As(err, &cacheErr):
		return cacheErr.Err.Error()
	}
	return err.Error()
}
