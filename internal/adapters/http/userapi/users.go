package userapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/refassign/internal/adapters/http/httpx"
	"github.com/matchday/refassign/internal/adapters/repository"
	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/logger"
)

// userCreateRequest mirrors the POST /users payload.
type userCreateRequest struct {
	Status    model.UserStatus `json:"status"`
	FirstName string           `json:"first_name"`
	LastName  string           `json:"last_name"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
}

func (u userCreateRequest) validate() error {
	switch {
	case !u.Status.Valid():
		return errors.New("status must be Official or Non-Official")
	case strings.TrimSpace(u.FirstName) == "":
		return errors.New("missing first_name")
	case strings.TrimSpace(u.LastName) == "":
		return errors.New("missing last_name")
	case strings.TrimSpace(u.Username) == "":
		return errors.New("missing username")
	}
	if _, err := mail.ParseAddress(u.Email); err != nil {
		return errors.New("invalid email")
	}
	return nil
}

// userUpdateRequest mirrors the PUT /users/{user_id} payload. Nil fields
// are left untouched.
type userUpdateRequest struct {
	Status    *model.UserStatus `json:"status"`
	FirstName *string           `json:"first_name"`
	LastName  *string           `json:"last_name"`
	Username  *string           `json:"username"`
	Email     *string           `json:"email"`
}

func (u userUpdateRequest) validate() error {
	if u.Status != nil && !u.Status.Valid() {
		return errors.New("status must be Official or Non-Official")
	}
	if u.Email != nil {
		if _, err := mail.ParseAddress(*u.Email); err != nil {
			return errors.New("invalid email")
		}
	}
	return nil
}

// handleCreate handles POST /users.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)

	var req userCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		s.log.Warn(ctx, "create user: validation failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.Create(ctx, model.User{
		Status:    req.Status,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	})
	if err != nil {
		s.log.Error(ctx, "create user: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "create user: created", logger.RequestID(reqID), logger.String("user_id", user.ID))
	httpx.WriteJSON(w, http.StatusCreated, user)
}

// handleList handles GET /users with optional user_id, status, username and
// email filters.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)

	q := r.URL.Query()
	filter := repository.UserFilter{
		ID:       q.Get("user_id"),
		Status:   q.Get("status"),
		Username: q.Get("username"),
		Email:    q.Get("email"),
	}

	users, err := s.store.Find(ctx, filter)
	if err != nil {
		s.log.Error(ctx, "get users: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}
	if len(users) == 0 {
		s.log.Warn(ctx, "get users: no match", logger.RequestID(reqID))
		httpx.WriteDetail(w, http.StatusNotFound, "no user(s) found with the given properties")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, users)
}

// handleUpdate handles PUT /users/{user_id}. Only supplied fields change.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)
	id := chi.URLParam(r, "user_id")

	var req userUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := s.store.Update(ctx, id, repository.UserUpdate{
		Status:    req.Status,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
	})
	if errors.Is(err, repository.ErrNotFound) {
		httpx.WriteDetail(w, http.StatusNotFound, "no user found with ID "+id)
		return
	}
	if err != nil {
		s.log.Error(ctx, "update user: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "update user: updated", logger.RequestID(reqID), logger.String("user_id", id))
	httpx.WriteJSON(w, http.StatusOK, user)
}

// handleDelete handles DELETE /users/{user_id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)
	id := chi.URLParam(r, "user_id")

	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		httpx.WriteDetail(w, http.StatusNotFound, "no user found with ID "+id)
		return
	}
	if err != nil {
		s.log.Error(ctx, "delete user: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "delete user: deleted", logger.RequestID(reqID), logger.String("user_id", id))
	w.WriteHeader(http.StatusNoContent)
}
