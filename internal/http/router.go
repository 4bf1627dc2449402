// Package http wires the chi router and request middleware.
package http

import (
	"database/sql"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"market-octopus/internal/handlers"
	"market-octopus/internal/storage"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Orchestrator handlers.Orchestrator
	History      storage.HistoryStore
	DB           *sql.DB
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(CORS)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)

	askHandler := handlers.NewAskHandler(deps.Orchestrator, deps.History)
	historyHandler := handlers.NewHistoryHandler(deps.History)
	healthHandler := handlers.NewHealthHandler(deps.DB)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodPost, "/ask", askHandler)
		r.Get("/history", historyHandler.List)
		r.Get("/history/{id}", historyHandler.Get)
		r.Method(http.MethodGet, "/health", healthHandler)
	})

	return r
}
