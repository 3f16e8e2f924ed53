package repository

import (
	"context"
	"encoding/json"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/refassign/internal/domain/model"
)

// AssignmentFilter selects assignments by any combination of properties.
// RefereeID matches assignments whose referee list contains that referee in
// any position.
type AssignmentFilter struct {
	ID        string
	GameID    string
	RefereeID string
}

// AssignmentStore persists assignment records. The referee list is stored
// as JSONB: it is an ordered value owned by the assignment, not a relation,
// and the IDs inside it are weak references resolved at read time.
type AssignmentStore struct {
	pool     *pgxpool.Pool
	settings settings
}

// NewAssignmentStore creates an assignment store over the given pool.
func NewAssignmentStore(pool *pgxpool.Pool, opts ...Option) *AssignmentStore {
	return &AssignmentStore{pool: pool, settings: newSettings(opts...)}
}

// EnsureSchema creates the assignments table if it does not exist. game_id
// is unique: one crew per game.
func (s *AssignmentStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS assignments (
			id TEXT PRIMARY KEY,
			game_id TEXT UNIQUE NOT NULL,
			referees JSONB,
			assigned_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	return storageErr(err, ErrDuplicateGame)
}

const assignmentColumns = "id, game_id, referees, assigned_at, updated_at"

// Create inserts a new assignment, minting its ID and timestamps. A second
// assignment for the same game reports ErrDuplicateGame.
func (s *AssignmentStore) Create(ctx context.Context, gameID string, refs []model.RefereeSlot) (model.Assignment, error) {
	a := model.Assignment{
		ID:         uuid.NewString(),
		GameID:     gameID,
		Referees:   refs,
		AssignedAt: s.settings.now(),
	}
	a.UpdatedAt = a.AssignedAt

	payload, err := refsJSON(refs)
	if err != nil {
		return model.Assignment{}, err
	}

	q := psql.Insert("assignments").
		Columns("id", "game_id", "referees", "assigned_at", "updated_at").
		Values(a.ID, a.GameID, payload, a.AssignedAt, a.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return model.Assignment{}, err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return model.Assignment{}, storageErr(err, ErrDuplicateGame)
	}
	return a, nil
}

// Find returns every assignment matching the filter, in assignment order.
func (s *AssignmentStore) Find(ctx context.Context, f AssignmentFilter) ([]model.Assignment, error) {
	q := psql.Select(assignmentColumns).From("assignments").OrderBy("assigned_at")

	if f.ID != "" {
		q = q.Where(sq.Eq{"id": f.ID})
	}
	if f.GameID != "" {
		q = q.Where(sq.Eq{"game_id": f.GameID})
	}
	if f.RefereeID != "" {
		member, err := json.Marshal([]map[string]string{{"referee_id": f.RefereeID}})
		if err != nil {
			return nil, err
		}
		q = q.Where(sq.Expr("referees @> ?", member))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, storageErr(err, ErrDuplicateGame)
	}
	defer rows.Close()

	var assignments []model.Assignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, storageErr(err, ErrDuplicateGame)
		}
		assignments = append(assignments, a)
	}
	return assignments, storageErr(rows.Err(), ErrDuplicateGame)
}

// Update replaces the referee list of one assignment when setRefs is true,
// stamps updated_at either way, and returns the updated record or
// ErrNotFound.
func (s *AssignmentStore) Update(ctx context.Context, id string, refs []model.RefereeSlot, setRefs bool) (model.Assignment, error) {
	q := psql.Update("assignments").
		Set("updated_at", s.settings.now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + assignmentColumns)

	if setRefs {
		payload, err := refsJSON(refs)
		if err != nil {
			return model.Assignment{}, err
		}
		q = q.Set("referees", payload)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return model.Assignment{}, err
	}
	a, err := scanAssignment(s.pool.QueryRow(ctx, sql, args...))
	if err != nil {
		return model.Assignment{}, storageErr(err, ErrDuplicateGame)
	}
	return a, nil
}

// Delete removes one assignment, or reports ErrNotFound.
func (s *AssignmentStore) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("assignments").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx, sql, args...)
	if err != nil {
		return storageErr(err, ErrDuplicateGame)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// refsJSON encodes a referee list for the JSONB column, preserving a NULL
// column for assignments without referees.
func refsJSON(refs []model.RefereeSlot) ([]byte, error) {
	if refs == nil {
		return nil, nil
	}
	return json.Marshal(refs)
}

func scanAssignment(row scanner) (model.Assignment, error) {
	var a model.Assignment
	var refs []byte
	if err := row.Scan(&a.ID, &a.GameID, &refs, &a.AssignedAt, &a.UpdatedAt); err != nil {
		return model.Assignment{}, err
	}
	if refs != nil {
		if err := json.Unmarshal(refs, &a.Referees); err != nil {
			return model.Assignment{}, err
		}
	}
	return a, nil
}
