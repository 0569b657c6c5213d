package handler

import (
	"log/slog"
	"net/http"
)

type cacheFlusher interface {
	FlushCache()
}

// CacheHandler is the externally supplied invalidation hook: the host
// platform decides when cached results are stale and calls flush.
type CacheHandler struct {
	flushers []cacheFlusher
}

func NewCacheHandler(flushers ...cacheFlusher) *CacheHandler {
	return &CacheHandler{flushers: flushers}
}

func (h *CacheHandler) Flush(w http.ResponseWriter, r *http.Request) {
	for _, flusher := range h.flushers {
		flusher.FlushCache()
	}

	slog.Info("caches flushed")
	writeSuccess(w, http.StatusOK, map[string]string{"status": "flushed"}, nil)
}
