// Package repository provides the Postgres-backed stores for the three
// services. Each service owns exactly one table; cross-service references
// are identifiers only, never foreign keys, so each store can live in its
// own database.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	sq "github.com/Masterminds/squirrel"

	"github.com/matchday/refassign/pkg/metrics"
)

const (
	maxConns      = 10
	retryInterval = time.Second
	pingTimeout   = 2 * time.Second

	// Postgres unique_violation.
	pgUniqueViolation = "23505"
)

// psql builds queries with Postgres-style $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Connect opens a pgx pool and waits for the database to come up, retrying
// until the timeout elapses. The services start alongside their databases,
// so a brief connect window at boot is expected.
func Connect(ctx context.Context, dsn string, timeout time.Duration) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	cfg.MaxConns = maxConns

	deadline := time.Now().Add(timeout)
	for {
		attemptCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		pool, err := pgxpool.NewWithConfig(attemptCtx, cfg)
		if err == nil {
			if pingErr := pool.Ping(attemptCtx); pingErr == nil {
				cancel()
				return pool, nil
			}
			pool.Close()
			err = attemptCtx.Err()
		}
		cancel()

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, ctx.Err())
		case <-time.After(retryInterval):
		}
	}
}

// storageErr classifies a pgx error into this package's sentinels. Unique
// violations map to the provided conflict sentinel; anything that is not a
// database-level error is treated as the store being unavailable.
func storageErr(err error, conflict error) error {
	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pgx.ErrNoRows):
		return ErrNotFound
	case errors.As(err, &pgErr):
		if pgErr.Code == pgUniqueViolation {
			return conflict
		}
		return err
	}
	metrics.RecordStorageError()
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
