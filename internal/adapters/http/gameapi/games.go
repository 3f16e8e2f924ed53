package gameapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matchday/refassign/internal/adapters/http/httpx"
	"github.com/matchday/refassign/internal/adapters/repository"
	"github.com/matchday/refassign/internal/domain/model"
	"github.com/matchday/refassign/pkg/logger"
)

const (
	maxNameLength  = 100
	maxVenueLength = 255
	maxHalves      = 45
	maxScore       = 99
)

// gameCreateRequest mirrors the POST /games payload.
type gameCreateRequest struct {
	League              string    `json:"league"`
	Venue               string    `json:"venue"`
	HomeTeam            string    `json:"home_team"`
	AwayTeam            string    `json:"away_team"`
	Level               string    `json:"level"`
	HalvesLengthMinutes *int      `json:"halves_length_minutes"`
	ScheduledTime       time.Time `json:"scheduled_time"`
}

func (g gameCreateRequest) validate() error {
	for field, val := range map[string]string{
		"league": g.League, "home_team": g.HomeTeam, "away_team": g.AwayTeam, "level": g.Level,
	} {
		if trimmed := strings.TrimSpace(val); trimmed == "" || len(trimmed) > maxNameLength {
			return fmt.Errorf("%s must be 1-%d characters", field, maxNameLength)
		}
	}
	if trimmed := strings.TrimSpace(g.Venue); trimmed == "" || len(trimmed) > maxVenueLength {
		return fmt.Errorf("venue must be 1-%d characters", maxVenueLength)
	}
	if g.HalvesLengthMinutes != nil && (*g.HalvesLengthMinutes < 1 || *g.HalvesLengthMinutes > maxHalves) {
		return fmt.Errorf("halves_length_minutes must be 1-%d", maxHalves)
	}
	if g.ScheduledTime.IsZero() {
		return errors.New("missing scheduled_time")
	}
	return nil
}

// gameUpdateRequest mirrors the PUT /games/{game_id} payload. Nil fields
// are left untouched; a supplied result replaces the stored one.
type gameUpdateRequest struct {
	League              *string           `json:"league"`
	Venue               *string           `json:"venue"`
	HomeTeam            *string           `json:"home_team"`
	AwayTeam            *string           `json:"away_team"`
	Level               *string           `json:"level"`
	HalvesLengthMinutes *int              `json:"halves_length_minutes"`
	ScheduledTime       *time.Time        `json:"scheduled_time"`
	GameCompleted       *bool             `json:"game_completed"`
	Result              *model.GameResult `json:"result"`
}

func (g gameUpdateRequest) validate() error {
	if g.HalvesLengthMinutes != nil && (*g.HalvesLengthMinutes < 1 || *g.HalvesLengthMinutes > maxHalves) {
		return fmt.Errorf("halves_length_minutes must be 1-%d", maxHalves)
	}
	if g.Result != nil {
		if err := validateResult(*g.Result); err != nil {
			return err
		}
	}
	return nil
}

func validateResult(res model.GameResult) error {
	if (res.HomeTeamScore == nil) != (res.AwayTeamScore == nil) {
		return errors.New("home_team_score and away_team_score must be provided together")
	}
	for _, score := range []*int{res.HomeTeamScore, res.AwayTeamScore} {
		if score != nil && (*score < 0 || *score > maxScore) {
			return fmt.Errorf("scores must be 0-%d", maxScore)
		}
	}
	for _, card := range res.CardsIssued {
		if card.Type != "Yellow" && card.Type != "Red" {
			return errors.New("card type must be Yellow or Red")
		}
		if strings.TrimSpace(card.Team) == "" {
			return errors.New("card team must not be empty")
		}
	}
	return nil
}

// handleCreate handles POST /games.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)

	var req gameCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		s.log.Warn(ctx, "create game: validation failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	halves := maxHalves
	if req.HalvesLengthMinutes != nil {
		halves = *req.HalvesLengthMinutes
	}
	game, err := s.store.Create(ctx, model.Game{
		League:              strings.TrimSpace(req.League),
		Venue:               strings.TrimSpace(req.Venue),
		HomeTeam:            strings.TrimSpace(req.HomeTeam),
		AwayTeam:            strings.TrimSpace(req.AwayTeam),
		Level:               strings.TrimSpace(req.Level),
		HalvesLengthMinutes: halves,
		ScheduledTime:       req.ScheduledTime,
	})
	if err != nil {
		s.log.Error(ctx, "create game: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "create game: created", logger.RequestID(reqID), logger.String("game_id", game.ID))
	httpx.WriteJSON(w, http.StatusCreated, game)
}

// handleList handles GET /games with optional game_id, league, level and
// game_completed filters.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)

	q := r.URL.Query()
	filter := repository.GameFilter{
		ID:     q.Get("game_id"),
		League: q.Get("league"),
		Level:  q.Get("level"),
	}
	if raw := q.Get("game_completed"); raw != "" {
		completed := raw == "true"
		filter.Completed = &completed
	}

	games, err := s.store.Find(ctx, filter)
	if err != nil {
		s.log.Error(ctx, "get games: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}
	if len(games) == 0 {
		s.log.Warn(ctx, "get games: no match", logger.RequestID(reqID))
		httpx.WriteDetail(w, http.StatusNotFound, "no game(s) found with the given properties")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, games)
}

// handleUpdate handles PUT /games/{game_id}. Only supplied fields change;
// a result is accepted only for a game that is, or is being marked,
// completed.
func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)
	id := chi.URLParam(r, "game_id")

	var req gameUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		httpx.WriteDetail(w, http.StatusBadRequest, err.Error())
		return
	}

	if req.Result != nil {
		completed, err := s.effectiveCompleted(r, id, req.GameCompleted)
		if err != nil {
			httpx.WriteError(w, err)
			return
		}
		if !completed {
			httpx.WriteDetail(w, http.StatusBadRequest, "only completed games can have result")
			return
		}
	}

	game, err := s.store.Update(ctx, id, repository.GameUpdate{
		League:              req.League,
		Venue:               req.Venue,
		HomeTeam:            req.HomeTeam,
		AwayTeam:            req.AwayTeam,
		Level:               req.Level,
		HalvesLengthMinutes: req.HalvesLengthMinutes,
		ScheduledTime:       req.ScheduledTime,
		GameCompleted:       req.GameCompleted,
		Result:              req.Result,
		SetResult:           req.Result != nil,
	})
	if errors.Is(err, repository.ErrNotFound) {
		httpx.WriteDetail(w, http.StatusNotFound, "no game found with ID "+id)
		return
	}
	if err != nil {
		s.log.Error(ctx, "update game: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "update game: updated", logger.RequestID(reqID), logger.String("game_id", id))
	httpx.WriteJSON(w, http.StatusOK, game)
}

// effectiveCompleted resolves whether the game will be completed after this
// update: the supplied flag wins, otherwise the stored one.
func (s *Server) effectiveCompleted(r *http.Request, id string, supplied *bool) (bool, error) {
	if supplied != nil {
		return *supplied, nil
	}
	games, err := s.store.Find(r.Context(), repository.GameFilter{ID: id})
	if err != nil {
		return false, err
	}
	if len(games) == 0 {
		return false, repository.ErrNotFound
	}
	return games[0].GameCompleted, nil
}

// handleDelete handles DELETE /games/{game_id}.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reqID := httpx.RequestIDFrom(ctx)
	id := chi.URLParam(r, "game_id")

	err := s.store.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		httpx.WriteDetail(w, http.StatusNotFound, "no game found with ID "+id)
		return
	}
	if err != nil {
		s.log.Error(ctx, "delete game: store failed", logger.RequestID(reqID), logger.Error(err))
		httpx.WriteError(w, err)
		return
	}

	s.log.Info(ctx, "delete game: deleted", logger.RequestID(reqID), logger.String("game_id", id))
	w.WriteHeader(http.StatusNoContent)
}
