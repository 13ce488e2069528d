package repository

import (
	"context"

	"github.com/taskhive/backend/domain"
)

// TaskFilter narrows a listing at the persistence boundary. VisibleTo
// restricts results to tasks the user created or is assigned to; Search
// matches title, description and tags case-insensitively.
type TaskFilter struct {
	CreatorID  string
	AssigneeID string
	VisibleTo  string
	Status     domain.Status
	Priority   domain.Priority
	Search     string
	Limit      int
	Offset     int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, id string) error
}
