// Package assignmentapi declares the assignment service's HTTP contract and
// handlers. The mutating handlers own the validate -> persist -> enrich
// ordering: nothing is written until every cross-service reference has
// passed validation, and enrichment only ever runs over persisted records.
package assignmentapi

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
const ServiceName = "assignment-service"

// Store is the persistence surface the handlers depend on.
type Store interface {
	Create(ctx context.Context, gameID string, refs []model.RefereeSlot) (model.Assignment, error)
	Find(ctx context.Context, f repository.AssignmentFilter) ([]model.Assignment, error)
	Update(ctx context.Context, id string, refs []model.RefereeSlot, setRefs bool) (model.Assignment, error)
	Delete(ctx context.Context, id string) error
}

// Validator confirms cross-service references before any write.
type Validator interface {
	Validate(ctx context.Context, gameID string, refs []model.RefereeSlot) error
	ValidateReferees(ctx context.Context, refs []model.RefereeSlot) error
}

// Enricher assembles the denormalized full-details view.
type Enricher interface {
	Enrich(ctx context.Context, a model.Assignment) (model.EnrichedAssignment, error)
}

// HealthChecker derives the composite health verdict over the dependencies.
type HealthChecker interface {
	Check(ctx context.Context) (model.Health, int)
}

// Server wires HTTP routes for the assignment service.
type Server struct {
	store     Store
	validator Validator
	enricher  Enricher
	health    HealthChecker
	log       logger.Logger
}

// NewServer creates the assignment API server.
func NewServer(store Store, validator Validator, enricher Enricher, health HealthChecker, log logger.Logger) *Server {
	return &Server{store: store, validator: validator, enricher: enricher, health: health, log: log}
}

// Register attaches all HTTP routes to r.
func (s *Server) Register(r chi.Router) {
	r.Use(httpx.RequestID)

	swagger.Register(r)

	r.Get("/health", httpx.Metrics("health", s.handleHealth))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))

	r.Post("/assignments", httpx.Metrics("assignments", s.handleCreate))
	r.Get("/assignments", httpx.Metrics("assignments", s.handleList))
	r.Put("/assignments/{assignment_id}", httpx.Metrics("assignments_by_id", s.handleUpdate))
	r.Delete("/assignments/{assignment_id}", httpx.Metrics("assignments_by_id", s.handleDelete))
	r.Get("/assignments/full-details/{assignment_id}", httpx.Metrics("assignments_full_details", s.handleFullDetails))
}

// handleHealth handles GET /health: every request re-probes both
// dependencies live and reports 200 or 503 per the composite verdict.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health, code := s.health.Check(r.Context())
	httpx.WriteJSON(w, code, health)
}
