// Package handlers implements the HTTP surface: the streaming ask endpoint,
// answer history, and health. Handlers stay thin; pipeline behavior lives in
// the synthesis package.
package handlers

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_orchestrator.go -package=mocks market-octopus/internal/handlers Orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"market-octopus/internal/answer"
	"market-octopus/internal/contextutil"
	"market-octopus/internal/evidence"
	"market-octopus/internal/storage"
	"market-octopus/internal/synthesis"
)

// Orchestrator is the synthesis entry point the ask handler consumes.
type Orchestrator interface {
	Answer(ctx context.Context, question string, scope evidence.Scope, sink synthesis.Sink) (*answer.Record, error)
}

// AskRequest is the HTTP request payload for a question.
type AskRequest struct {
	Question string `json:"question"`
	// Scope is domestic, foreign, or both. Empty defaults to both.
	Scope string `json:"scope,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// AskHandler answers questions over Server-Sent Events, one event per
// pipeline stage.
type AskHandler struct {
	orchestrator Orchestrator
	history      storage.HistoryStore
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(orchestrator Orchestrator, history storage.HistoryStore) *AskHandler {
	return &AskHandler{orchestrator: orchestrator, history: history}
}

// ServeHTTP streams pipeline events for one question as SSE. The finished
// record is saved to history; a save failure is logged, not surfaced — the
// client already has the full stream.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}
	scope, err := evidence.ParseScope(req.Scope)
	if err != nil {
		logger.WarnContext(ctx, "invalid scope", "scope", req.Scope)
		writeError(w, http.StatusBadRequest, "Scope must be domestic, foreign, or both")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		logger.ErrorContext(ctx, "response writer does not support streaming")
		writeError(w, http.StatusInternalServerError, "Streaming unsupported")
		return
	}

	questionID := uuid.New().String()
	ctx = contextutil.WithLogger(ctx, logger.With("question_id", questionID))

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	sink := func(event synthesis.Event) error {
		data, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal event: %w", err)
		}
		if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Stage, data); err != nil {
			return err
		}
		flusher.Flush()
		return nil
	}

	record, err := h.orchestrator.Answer(ctx, req.Question, scope, sink)
	if err != nil {
		// The stream is already open; the client sees the break.
		logger.ErrorContext(ctx, "answer pipeline aborted", "error", err)
		return
	}

	if id, err := h.history.Save(ctx, record); err != nil {
		logger.ErrorContext(ctx, "failed to save answer record", "error", err)
	} else {
		logger.InfoContext(ctx, "answer record saved", "record_id", id)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}
