// Package userapi declares the user service's HTTP contract and handlers.
package userapi

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
const ServiceName = "user-service"

// Store is the persistence surface the handlers depend on. Using an
// interface keeps the handler layer loosely coupled to the Postgres store.
type Store interface {
	Create(ctx context.Context, u model.User) (model.User, error)
	Find(ctx context.Context, f repository.UserFilter) ([]model.User, error)
	Update(ctx context.Context, id string, upd repository.UserUpdate) (model.User, error)
	Delete(ctx context.Context, id string) error
}

// Server wires HTTP routes for the user service.
type Server struct {
	store Store
	log   logger.Logger
}

// NewServer creates the user API server.
func NewServer(store Store, log logger.Logger) *Server {
	return &Server{store: store, log: log}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(httpx.RequestID)

	swagger.Register(r)

	r.Get("/health", httpx.Metrics("health", s.handleHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Post("/users", httpx.Metrics("users", s.handleCreate))
	r.Get("/users", httpx.Metrics("users", s.handleList))
	r.Put("/users/{user_id}", httpx.Metrics("users_by_id", s.handleUpdate))
	r.Delete("/users/{user_id}", httpx.Metrics("users_by_id", s.handleDelete))
}

// handleHealth handles GET /health. The user service has no dependencies,
// so its verdict is its own liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, model.Health{
		Service: ServiceName,
		Status:  model.StatusHealthy,
	})
}
