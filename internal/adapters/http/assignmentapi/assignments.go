package assignmentapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/refassign/internal/adapters/http/httpx"
	"github.com/matchday/refassign/internal/adapters/repository"
	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/logger"
)

type assignmentCreateRequest struct {
	GameID   string              `json:"game_id"`
	Referees []model.RefereeSlot `json:"referees"`
}

func (r assignmentCreateRequest) validate() error {
	if r.GameID == "" {
		return fmt.Errorf("Missing game_id")
	}
	return validateReferees(r.Referees)
}

type assignmentUpdateRequest struct {
	Referees *[]model.RefereeSlot `json:"referees"`
}

func (r assignmentUpdateRequest) validate() error {
	if r.Referees == nil {
		return nil
	}
	return validateReferees(*r.Referees)
}

// validateReferees checks the request shape only. Whether the referees
// actually exist as Officials is the validator's job.
func validateReferees(refs []model.RefereeSlot) error {
	for _, ref := range refs {
		if ref.RefereeID == "" {
			return fmt.Errorf("Missing referee_id")
		}
		if !ref.Position.Valid() {
			return fmt.Errorf("Invalid position: %s", ref.Position)
		}
	}
	return nil
}

// handleCreate handles POST /assignments. Shape errors fail before any
// peer call; reference validation runs before the insert so a rejected
// crew never touches storage.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := httpx.RequestIDFrom(ctx)

	var req assignmentCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error(ctx, "create assignment: bad request body", logger.RequestID(rid), logger.Error(err))
		httpx.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.validator.Validate(ctx, req.GameID, req.Referees); err != nil {
		s.log.Error(ctx, "create assignment: reference validation failed", logger.RequestID(rid), logger.String("game_id", req.GameID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	created, err := s.store.Create(ctx, req.GameID, req.Referees)
	if err != nil {
		s.log.Error(ctx, "create assignment: store failed", logger.RequestID(rid), logger.String("game_id", req.GameID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "create assignment: created", logger.RequestID(rid), logger.String("assignment_id", created.ID), logger.String("game_id", created.GameID))
	httpx.WriteJSON(w, http.StatusCreated, created)
}

// handleList handles GET /assignments with optional assignment_id,
// game_id and referee_id filters.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	filter := repository.AssignmentFilter{
		ID:        q.Get("assignment_id"),
		GameID:    q.Get("game_id"),
		RefereeID: q.Get("referee_id"),
	}

	found, err := s.store.Find(ctx, filter)
	if err != nil {
		s.log.Error(ctx, "get assignments: store failed", logger.RequestID(httpx.RequestIDFrom(ctx)), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}
	if len(found) == 0 {
		httpx.WriteDetail(w, http.StatusNotFound, "no assignment(s) found with the given properties")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, found)
}

// handleUpdate handles PUT /assignments/{assignment_id}. Only a supplied
// referees list is re-validated; the game reference is immutable and is
// not re-checked.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := httpx.RequestIDFrom(ctx)
	id := chi.URLParam(r, "assignment_id")

	var req assignmentUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.log.Error(ctx, "update assignment: bad request body", logger.RequestID(rid), logger.Error(err))
		httpx.WriteDetail(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Referees != nil {
		if err := s.validator.ValidateReferees(ctx, *req.Referees); err != nil {
			s.log.Error(ctx, "update assignment: referee validation failed", logger.RequestID(rid), logger.String("assignment_id", id), logger.Error(err))
			httpx.WriteError(w, err)
			return
		}
	}

	var refs []model.RefereeSlot
	if req.Referees != nil {
		refs = *req.Referees
	}
	updated, err := s.store.Update(ctx, id, refs, req.Referees != nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, "no assignment found with ID "+id)
			return
		}
		s.log.Error(ctx, "update assignment: store failed", logger.RequestID(rid), logger.String("assignment_id", id), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "update assignment: updated", logger.RequestID(rid), logger.String("assignment_id", updated.ID))
	httpx.WriteJSON(w, http.StatusOK, updated)
}

// handleDelete handles DELETE /assignments/{assignment_id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "assignment_id")

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			httpx.WriteDetail(w, http.StatusNotFound, "no assignment found with ID "+id)
			return
		}
		s.log.Error(ctx, "delete assignment: store failed", logger.RequestID(httpx.RequestIDFrom(ctx)), logger.String("assignment_id", id), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleFullDetails handles GET /assignments/full-details/{assignment_id}.
// The enriched view is assembled at read time and fails as a whole when
// any constituent lookup fails.
func (s *Server) handleFullDetails(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rid := httpx.RequestIDFrom(ctx)
	id := chi.URLParam(r, "assignment_id")

	found, err := s.store.Find(ctx, repository.AssignmentFilter{ID: id})
	if err != nil {
		s.log.Error(ctx, "full details: store failed", logger.RequestID(rid), logger.String("assignment_id", id), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}
	if len(found) == 0 {
		httpx.WriteDetail(w, http.StatusNotFound, "no assignment found with ID "+id)
		return
	}

	view, err := s.enricher.Enrich(ctx, found[0])
	if err != nil {
		s.log.Error(ctx, "full details: enrichment failed", logger.RequestID(rid), logger.String("assignment_id", id), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, view)
}
