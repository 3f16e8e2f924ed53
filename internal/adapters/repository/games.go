package repository

import (
	"context"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/refassign/internal/domain/model"
)

// GameFilter selects games by any combination of properties. Zero values
// are ignored; Completed is a pointer so false can be filtered on.
type GameFilter struct {
	ID        string
	League    string
	Level     string
	Completed *bool
}

// GameUpdate carries the fields of a partial game update. Nil fields are
// left untouched. SetResult distinguishes "leave result alone" from
// "clear result".
type GameUpdate struct {
	League              *string
	Venue               *string
	HomeTeam            *string
	AwayTeam            *string
	Level               *string
	HalvesLengthMinutes *int
	ScheduledTime       *time.Time
	GameCompleted       *bool
	Result              *model.GameResult
	SetResult           bool
}

// GameStore persists game records.
type GameStore struct {
	pool     *pgxpool.Pool
	settings settings
}

// NewGameStore creates a game store over the given pool.
func NewGameStore(pool *pgxpool.Pool, opts ...Option) *GameStore {
	return &GameStore{pool: pool, settings: newSettings(opts...)}
}

// EnsureSchema creates the games table if it does not exist.
func (s *GameStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			league TEXT NOT NULL,
			venue TEXT NOT NULL,
			home_team TEXT NOT NULL,
			away_team TEXT NOT NULL,
			level TEXT NOT NULL,
			halves_length_minutes INT NOT NULL DEFAULT 45,
			game_completed BOOLEAN NOT NULL DEFAULT FALSE,
			result JSONB,
			scheduled_time TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	return storageErr(err, ErrDuplicate)
}

const gameColumns = "id, league, venue, home_team, away_team, level, halves_length_minutes, game_completed, result, scheduled_time, created_at, updated_at"

// Create inserts a new game, minting its ID and timestamps. New games are
// never completed and carry no result.
func (s *GameStore) Create(ctx context.Context, g model.Game) (model.Game, error) {
	g.ID = uuid.NewString()
	g.GameCompleted = false
	g.Result = nil
	g.CreatedAt = s.settings.now()
	g.UpdatedAt = g.CreatedAt

	q := psql.Insert("games").
		Columns("id", "league", "venue", "home_team", "away_team", "level", "halves_length_minutes", "game_completed", "result", "scheduled_time", "created_at", "updated_at").
		Values(g.ID, g.League, g.Venue, g.HomeTeam, g.AwayTeam, g.Level, g.HalvesLengthMinutes, g.GameCompleted, nil, g.ScheduledTime, g.CreatedAt, g.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return model.Game{}, err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return model.Game{}, storageErr(err, ErrDuplicate)
	}
	return g, nil
}

// Find returns every game matching the filter, in creation order.
func (s *GameStore) Find(ctx context.Context, f GameFilter) ([]model.Game, error) {
	q := psql.Select(gameColumns).From("games").OrderBy("created_at")

	if f.ID != "" {
		q = q.Where(sq.Eq{"id": f.ID})
	}
	if f.League != "" {
		q = q.Where(sq.Eq{"league": f.League})
	}
	if f.Level != "" {
		q = q.Where(sq.Eq{"level": f.Level})
	}
	if f.Completed != nil {
		q = q.Where(sq.Eq{"game_completed": *f.Completed})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageErr(err, ErrDuplicate)
	}
	defer rows.Close()

	var games []model.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, storageErr(err, ErrDuplicate)
		}
		games = append(games, g)
	}
	return games, storageErr(rows.Err(), ErrDuplicate)
}

// Update applies the supplied fields to one game and returns the updated
// record, or ErrNotFound.
func (s *GameStore) Update(ctx context.Context, id string, upd GameUpdate) (model.Game, error) {
	q := psql.Update("games").
		Set("updated_at", s.settings.now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + gameColumns)

	if upd.League != nil {
		q = q.Set("league", *upd.League)
	}
	if upd.Venue != nil {
		q = q.Set("venue", *upd.Venue)
	}
	if upd.HomeTeam != nil {
		q = q.Set("home_team", *upd.HomeTeam)
	}
	if upd.AwayTeam != nil {
		q = q.Set("away_team", *upd.AwayTeam)
	}
	if upd.Level != nil {
		q = q.Set("level", *upd.Level)
	}
	if upd.HalvesLengthMinutes != nil {
		q = q.Set("halves_length_minutes", *upd.HalvesLengthMinutes)
	}
	if upd.ScheduledTime != nil {
		q = q.Set("scheduled_time", *upd.ScheduledTime)
	}
	if upd.GameCompleted != nil {
		q = q.Set("game_completed", *upd.GameCompleted)
	}
	if upd.SetResult {
		if upd.Result == nil {
			q = q.Set("result", nil)
		} else {
			payload, err := json.Marshal(upd.Result)
			if err != nil {
				return model.Game{}, err
			}
			q = q.Set("result", payload)
		}
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return model.Game{}, err
	}
	g, err := scanGame(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return model.Game{}, storageErr(err, ErrDuplicate)
	}
	return g, nil
}

// Delete removes one game, or reports ErrNotFound.
func (s *GameStore) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("games").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return storageErr(err, ErrDuplicate)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner covers pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (model.Game, error) {
	var g model.Game
	var result []byte
	if err := row.Scan(&g.ID, &g.League, &g.Venue, &g.HomeTeam, &g.AwayTeam, &g.Level,
		&g.HalvesLengthMinutes, &g.GameCompleted, &result, &g.ScheduledTime, &g.CreatedAt, &g.UpdatedAt); err != nil {
		return model.Game{}, err
	}
	if result != nil {
		if err := json.Unmarshal(result, &g.Result); err != nil {
			return model.Game{}, err
		}
	}
	return g, nil
}
