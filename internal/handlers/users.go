package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"statusapi/internal/cache"
	"statusapi/internal/util"
)

type UsersResponse struct {
	OK    bool   `json:"ok"`
	Time  string `json:"time,omitempty"`
	Error string `json:"error,omitempty"`
}

// Users reads the database clock and records the call time in the cache.
func (h *Handler) Users(w http.ResponseWriter, r *http.Request) {
	dbNow, err := h.recordCall(r.Context())
	if err != nil {
		h.logger(r).Error("users request failed", zap.Error(err))
		util.WriteJSON(w, http.StatusInternalServerError, UsersResponse{OK: false, Error: causeMessage(err)})
		return
	}

	util.WriteJSON(w, http.StatusOK, UsersResponse{
		OK:   true,
		Time: dbNow.UTC().Format(time.RFC3339Nano),
	})
}

// recordCall holds one lease for the query and the cache write and releases
// it before the response is written.
func (h *Handler) recordCall(ctx context.Context) (time.Time, error) {
	lease, err := h.DB.Acquire(ctx)
	if err != nil {
		return time.Time{}, err
	}
	defer lease.Release()

	dbNow, err := lease.Now(ctx)
	if err != nil {
		return time.Time{}, err
	}

	stamp := strconv.FormatInt(h.Now().UnixMilli(), 10)
	if err := h.Cache.Set(ctx, cache.LastCallKey, stamp); err != nil {
		return time.Time{}, err
	}
	return dbNow, nil
}
