package db

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const repoLogPrefix = "db:repository"

// Repository provides access to the dispatch log.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new Repository with the given connection pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// InsertDispatch appends one record. A zero DispatchedAt uses the database clock.
func (r *Repository) InsertDispatch(ctx context.Context, rec DispatchRecord) error {
	slog.Debug(fmt.Sprintf("%s - InsertDispatch id=%s kind=%s route=%s", repoLogPrefix, rec.ID, rec.Kind, rec.Route))

	var dispatchedAt interface{}
	if !rec.DispatchedAt.IsZero() {
		dispatchedAt = rec.DispatchedAt.UTC()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO dispatch_log (id, request_id, session_id, kind, intent, route, outcome, error, duration_ms, dispatched_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, COALESCE($10::timestamptz, now()))
		 ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.RequestID, rec.SessionID, rec.Kind, rec.Intent, rec.Route, rec.Outcome, rec.Error, rec.DurationMs, dispatchedAt)
	if err != nil {
		return fmt.Errorf("%s - InsertDispatch failed: %w", repoLogPrefix, err)
	}
	return nil
}

// ListRecentDispatches returns up to limit records, newest first.
func (r *Repository) ListRecentDispatches(ctx context.Context, limit int) ([]DispatchRecord, error) {
	if limit < 1 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, request_id, session_id, kind, intent, route, outcome, error, duration_ms, dispatched_at
		 FROM dispatch_log
		 ORDER BY dispatched_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s - ListRecentDispatches failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var out []DispatchRecord
	for rows.Next() {
		rec, err := scanDispatch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s - ListRecentDispatches rows: %w", repoLogPrefix, err)
	}
	return out, nil
}

// CountByRoute aggregates the log by kind and route.
func (r *Repository) CountByRoute(ctx context.Context) ([]RouteCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT kind, route, COUNT(*)::int, COUNT(*) FILTER (WHERE outcome = 'error')::int
		 FROM dispatch_log
		 GROUP BY kind, route
		 ORDER BY kind, route`)
	if err != nil {
		return nil, fmt.Errorf("%s - CountByRoute failed: %w", repoLogPrefix, err)
	}
	defer rows.Close()

	var out []RouteCount
	for rows.Next() {
		var c RouteCount
		if err := rows.Scan(&c.Kind, &c.Route, &c.Count, &c.Errors); err != nil {
			return nil, fmt.Errorf("%s - scan route count failed: %w", repoLogPrefix, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s - CountByRoute rows: %w", repoLogPrefix, err)
	}
	return out, nil
}

func scanDispatch(row pgx.Row) (*DispatchRecord, error) {
	var d DispatchRecord
	err := row.Scan(
		&d.ID, &d.RequestID, &d.SessionID, &d.Kind, &d.Intent,
		&d.Route, &d.Outcome, &d.Error, &d.DurationMs, &d.DispatchedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("%s - scan dispatch failed: %w", repoLogPrefix, err)
	}
	return &d, nil
}
