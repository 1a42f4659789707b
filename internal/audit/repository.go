package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides read access to the audit log and actor directory.
type Repository interface {
	ListEvents(ctx context.Context) ([]Event, error)
	ListActorsByIDs(ctx context.Context, ids []int64) ([]Actor, error)
}

// PGRepository implements Repository on PostgreSQL.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

// ListEvents returns all audit events, newest first.
func (r *PGRepository) ListEvents(ctx context.Context) ([]Event, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_user_id, action, details, created_at FROM audit_logs ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var event Event
		var details []byte
		if err := rows.Scan(&event.ID, &event.ActorUserID, &event.Action, &details, &event.OccurredAt); err != nil {
			return nil, fmt.Errorf("audit: scan event: %w", err)
		}
		if len(details) > 0 {
			if err := json.Unmarshal(details, &event.Details); err != nil {
				// A malformed payload must not sink the whole log.
				event.Details = map[string]any{"raw": string(details)}
			}
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: list events: %w", err)
	}
	return events, nil
}

// ListActorsByIDs fetches directory entries for exactly the given set.
func (r *PGRepository) ListActorsByIDs(ctx context.Context, ids []int64) ([]Actor, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM users WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("audit: list actors: %w", err)
	}
	defer rows.Close()

	var actors []Actor
	for rows.Next() {
		var actor Actor
		if err := rows.Scan(&actor.UserID, &actor.Name); err != nil {
			return nil, fmt.Errorf("audit: scan actor: %w", err)
		}
		actors = append(actors, actor)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("audit: list actors: %w", err)
	}
	return actors, nil
}

var _ Repository = (*PGRepository)(nil)
