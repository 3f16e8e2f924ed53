package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matchday/refassign/internal/domain/model"
)

// UserFilter selects users by any combination of properties. Zero values
// are ignored.
type UserFilter struct {
	ID       string
	Status   string
	Username string
	Email    string
}

// UserUpdate carries the fields of a partial user update. Nil fields are
// left untouched.
type UserUpdate struct {
	Status    *model.UserStatus
	FirstName *string
	LastName  *string
	Username  *string
	Email     *string
}

// UserStore persists user records.
type UserStore struct {
	pool     *pgxpool.Pool
	settings settings
}

// NewUserStore creates a user store over the given pool.
func NewUserStore(pool *pgxpool.Pool, opts ...Option) *UserStore {
	return &UserStore{pool: pool, settings: newSettings(opts...)}
}

// EnsureSchema creates the users table if it does not exist.
func (s *UserStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			first_name TEXT NOT NULL,
			last_name TEXT NOT NULL,
			username TEXT UNIQUE NOT NULL,
			email TEXT UNIQUE NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`)
	return storageErr(err, ErrDuplicate)
}

// Create inserts a new user, minting its ID and timestamps.
func (s *UserStore) Create(ctx context.Context, u model.User) (model.User, error) {
	u.ID = uuid.NewString()
	u.CreatedAt = s.settings.now()
	u.UpdatedAt = u.CreatedAt

	q := psql.Insert("users").
		Columns("id", "status", "first_name", "last_name", "username", "email", "created_at", "updated_at").
		Values(u.ID, u.Status, u.FirstName, u.LastName, u.Username, u.Email, u.CreatedAt, u.UpdatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return model.User{}, err
	}
	if _, err := s.pool.Exec(ctx, sql, args...); err != nil {
		return model.User{}, storageErr(err, ErrDuplicate)
	}
	return u, nil
}

// Find returns every user matching the filter, in creation order.
func (s *UserStore) Find(ctx context.Context, f UserFilter) ([]model.User, error) {
	q := psql.Select("id", "status", "first_name", "last_name", "username", "email", "created_at", "updated_at").
		From("users").
		OrderBy("created_at")

	if f.ID != "" {
		q = q.Where(sq.Eq{"id": f.ID})
	}
	if f.Status != "" {
		q = q.Where(sq.Eq{"status": f.Status})
	}
	if f.Username != "" {
		q = q.Where(sq.Eq{"username": f.Username})
	}
	if f.Email != "" {
		q = q.Where(sq.Eq{"email": f.Email})
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

	var users []model.User
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Status, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, storageErr(err, ErrDuplicate)
		}
		users = append(users, u)
	}
	return users, storageErr(rows.Err(), ErrDuplicate)
}

// Update applies the supplied fields to one user and returns the updated
// record, or ErrNotFound.
func (s *UserStore) Update(ctx context.Context, id string, upd UserUpdate) (model.User, error) {
	q := psql.Update("users").
		Set("updated_at", s.settings.now()).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING id, status, first_name, last_name, username, email, created_at, updated_at")

	if upd.Status != nil {
		q = q.Set("status", *upd.Status)
	}
	if upd.FirstName != nil {
		q = q.Set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		q = q.Set("last_name", *upd.LastName)
	}
	if upd.Username != nil {
		q = q.Set("username", *upd.Username)
	}
	if upd.Email != nil {
		q = q.Set("email", *upd.Email)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return model.User{}, err
	}
	var u model.User
	row := s.pool.QueryRow(ctx, sql, args...)
	if err := row.Scan(&u.ID, &u.Status, &u.FirstName, &u.LastName, &u.Username, &u.Email, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return model.User{}, storageErr(err, ErrDuplicate)
	}
	return u, nil
}

// Delete removes one user, or reports ErrNotFound.
func (s *UserStore) Delete(ctx context.Context, id string) error {
	sql, args, err := psql.Delete("users").Where(sq.Eq{"id": id}).ToSql()
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
