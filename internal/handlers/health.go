package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"statusapi/internal/util"
)

type StatusResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Status is the liveness endpoint. It never touches a dependency, so it
// answers 200 for as long as the process is dispatching requests.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	util.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// Health checks both backing stores: a trivial query on a leased
// connection, then a cache ping. Any failure answers 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	err := h.pingDB(ctx)
	if err == nil {
		err = h.Cache.Ping(ctx)
	}
	if err != nil {
		h.logger(r).Warn("health check failed", zap.Error(err))
		util.WriteJSON(w, http.StatusServiceUnavailable, StatusResponse{
			Status: "unhealthy",
			Error:  causeMessage(err),
		})
		return
	}

	util.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *Handler) pingDB(ctx context.Context) error {
	lease, err := h.DB.Acquire(ctx)
	if err != nil {
		return err
	}
	defer lease.Release()
	return lease.Ping(ctx)
}
