package postgres

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type eventRepository struct {
	pool *pgxpool.Pool
}

// NewEventRepository creates a Postgres-backed task activity log.
func NewEventRepository(pool *pgxpool.Pool) repository.EventRepository {
	return &eventRepository{pool: pool}
}

func (r *eventRepository) Append(ctx context.Context, event *domain.TaskEvent) error {
	if event == nil || event.TaskID == "" {
		return domain.ErrInvalidPayload
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO task_events (id, task_id, actor_id, kind, metadata, created_at)
	VALUES ($1, $2, $3, $4, $5, COALESCE($6, NOW()))
	RETURNING created_at
	`

	return r.pool.QueryRow(ctx, query,
		event.ID,
		event.TaskID,
		event.ActorID,
		string(event.Kind),
		marshalMap(event.Metadata),
		nullTime(event.CreatedAt),
	).Scan(&event.CreatedAt)
}

func (r *eventRepository) ListByTask(ctx context.Context, taskID string, limit int) ([]domain.TaskEvent, error) {
	const query = `
	SELECT id, task_id, actor_id, kind, metadata, created_at
	FROM task_events
	WHERE task_id = $1
	ORDER BY created_at DESC
	LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, taskID, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.TaskEvent
	for rows.Next() {
		var event domain.TaskEvent
		var metadata []byte
		if err := rows.Scan(
			&event.ID,
			&event.TaskID,
			&event.ActorID,
			&event.Kind,
			&metadata,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &event.Metadata)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
