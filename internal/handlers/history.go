package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"market-octopus/internal/contextutil"
	"market-octopus/internal/storage"
)

// HistoryHandler serves the answered-question history.
type HistoryHandler struct {
	history storage.HistoryStore
}

// NewHistoryHandler creates a new HistoryHandler.
func NewHistoryHandler(history storage.HistoryStore) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// HistoryListResponse is the paged question list payload.
type HistoryListResponse struct {
	Entries []storage.HistoryEntry `json:"entries"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
}

// List returns question history entries, newest first. Paging via
// ?limit=&offset= query parameters.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)
	if limit > 100 {
		limit = 100
	}

	entries, err := h.history.List(ctx, limit, offset)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list history", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list history")
		return
	}
	if entries == nil {
		entries = []storage.HistoryEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(HistoryListResponse{Entries: entries, Limit: limit, Offset: offset})
}

// Get returns one full answer record by id.
func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	id := chi.URLParam(r, "id")
	record, err := h.history.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Record not found")
		return
	}
	if err != nil {
		logger.ErrorContext(ctx, "failed to load answer record", "record_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load record")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		logger.ErrorContext(ctx, "failed to encode record", "error", err)
	}
}

func queryInt(r *http.Request, key string, defaultValue int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return defaultValue
	}
	return v
}
