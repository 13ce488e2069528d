package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// EventRepository stores the append-only task activity log.
type EventRepository interface {
	Append(ctx context.Context, event *domain.TaskEvent) error
	ListByTask(ctx context.Context, taskID string, limit int) ([]domain.TaskEvent, error)
}
