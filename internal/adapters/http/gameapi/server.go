// Package gameapi declares the game service's HTTP contract and handlers.
package gameapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matchday/refassign/internal/adapters/http/httpx"
	"github.com/matchday/refassign/internal/adapters/http/swagger"
	"github.com/matchday/refassign/internal/adapters/repository"
	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/logger"
	"github.com/matchday/refassign/pkg/metrics"
)

// ServiceName identifies this service in health reports.
const ServiceName = "game-service"

// Store is the persistence surface the handlers depend on.
type Store interface {
	Create(ctx context.Context, g model.Game) (model.Game, error)
	Find(ctx context.Context, f repository.GameFilter) ([]model.Game, error)
	Update(ctx context.Context, id string, upd repository.GameUpdate) (model.Game, error)
	Delete(ctx context.Context, id string) error
}

// Server wires HTTP routes for the game service.
type Server struct {
	store Store
	log   logger.Logger
}

// NewServer creates the game API server.
func NewServer(store Store, log logger.Logger) *Server {
	return &Server{store: store, log: log}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(httpx.RequestID)

	swagger.Register(r)

	r.Get("/health", httpx.Metrics("health", s.handleHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Post("/games", httpx.Metrics("games", s.handleCreate))
	r.Get("/games", httpx.Metrics("games", s.handleList))
	r.Put("/games/{game_id}", httpx.Metrics("games_by_id", s.handleUpdate))
	r.Delete("/games/{game_id}", httpx.Metrics("games_by_id", s.handleDelete))
}

// handleHealth handles GET /health. The game service has no dependencies.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, model.Health{
		Service: ServiceName,
		Status:  model.StatusHealthy,
	})
}
