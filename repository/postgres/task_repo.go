package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/repository"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

const taskColumns = `id, creator_id, title, description, status, priority, due_date, completed_at,
	assignees, tags, comments, is_public, estimated_hours, actual_hours, created_at, updated_at`

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR creator_id = $1)
	  AND ($2 = '' OR EXISTS (
			SELECT 1 FROM jsonb_array_elements(assignees) AS a
			WHERE a->>'user_id' = $2))
	  AND ($3 = '' OR creator_id = $3 OR EXISTS (
			SELECT 1 FROM jsonb_array_elements(assignees) AS a
			WHERE a->>'user_id' = $3))
	  AND ($4 = '' OR status = $4)
	  AND ($5 = '' OR priority = $5)
	  AND ($6 = '' OR title ILIKE '%' || $6 || '%'
			OR description ILIKE '%' || $6 || '%'
			OR tags::text ILIKE '%' || $6 || '%')
	ORDER BY due_date ASC, created_at ASC
	LIMIT $7 OFFSET $8
	`
	rows, err := r.pool.Query(ctx, query,
		filter.CreatorID,
		filter.AssigneeID,
		filter.VisibleTo,
		string(filter.Status),
		string(filter.Priority),
		filter.Search,
		clampLimit(filter.Limit),
		filter.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO tasks (id, creator_id, title, description, status, priority, due_date, completed_at,
		assignees, tags, comments, is_public, estimated_hours, actual_hours)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.CreatorID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.CompletedAt,
		marshalJSON(task.Assignees),
		marshalJSON(task.Tags),
		marshalJSON(task.Comments),
		task.IsPublic,
		task.EstimatedHours,
		task.ActualHours,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	if task == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE tasks
	SET title = $2,
		description = $3,
		status = $4,
		priority = $5,
		due_date = $6,
		completed_at = $7,
		assignees = $8,
		tags = $9,
		comments = $10,
		is_public = $11,
		estimated_hours = $12,
		actual_hours = $13,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.DueDate,
		task.CompletedAt,
		marshalJSON(task.Assignees),
		marshalJSON(task.Tags),
		marshalJSON(task.Comments),
		task.IsPublic,
		task.EstimatedHours,
		task.ActualHours,
	).Scan(&task.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrTaskNotFound
		}
		return err
	}

	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM tasks WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var task domain.Task
	var (
		completedAt *time.Time
		assignees   []byte
		tags        []byte
		comments    []byte
	)

	if err := row.Scan(
		&task.ID,
		&task.CreatorID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&completedAt,
		&assignees,
		&tags,
		&comments,
		&task.IsPublic,
		&task.EstimatedHours,
		&task.ActualHours,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.CompletedAt = completedAt
	if len(assignees) > 0 {
		_ = json.Unmarshal(assignees, &task.Assignees)
	}
	if len(tags) > 0 {
		_ = json.Unmarshal(tags, &task.Tags)
	}
	if len(comments) > 0 {
		_ = json.Unmarshal(comments, &task.Comments)
	}

	return &task, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 100 {
		return 100
	}
	return limit
}
