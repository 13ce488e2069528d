package task

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taskhive/backend/access"
	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/clock"
	"github.com/taskhive/backend/repository"
	"github.com/taskhive/backend/schedule"
	"github.com/taskhive/backend/usecase"
)

// UseCase owns every task mutation and read. All mutations are
// check-then-act: the access decision is taken against the loaded record
// before anything changes, and a denial aborts with no partial effect.
type UseCase struct {
	tasks  repository.TaskRepository
	users  repository.UserRepository
	events repository.EventRepository
	buffer usecase.OperationBuffer
	clock  clock.Clock
	logger *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	events repository.EventRepository,
	buffer usecase.OperationBuffer,
	clk clock.Clock,
	logger *zap.Logger,
) *UseCase {
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		events: events,
		buffer: buffer,
		clock:  clk,
		logger: logger,
	}
}

// CreateInput carries the caller-supplied fields for a new task.
type CreateInput struct {
	Title          string
	Description    string
	Priority       domain.Priority
	Status         domain.Status
	DueDate        time.Time
	Tags           []string
	Assignees      []string
	IsPublic       bool
	EstimatedHours float64
}

// UpdateInput is a partial edit; nil fields are left unchanged. Only the
// creator may apply it, including free movement between any two statuses.
type UpdateInput struct {
	Title          *string
	Description    *string
	Priority       *domain.Priority
	Status         *domain.Status
	DueDate        *time.Time
	Tags           *[]string
	IsPublic       *bool
	EstimatedHours *float64
	ActualHours    *float64
}

// GetTask returns the annotated view of one task for the principal.
func (uc *UseCase) GetTask(ctx context.Context, principalID, id string) (*schedule.View, error) {
	task, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpView); err != nil {
		return nil, err
	}
	view := schedule.Annotate(*task, uc.clock.Now())
	return &view, nil
}

// ListTasks returns the ranked, annotated views visible to the principal.
// The filter narrows the snapshot at the persistence boundary; ranking is
// applied here against a single instant so list order and badges agree.
func (uc *UseCase) ListTasks(ctx context.Context, principalID string, filter repository.TaskFilter) ([]schedule.View, error) {
	filter.VisibleTo = principalID
	tasks, err := uc.tasks.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	views := schedule.AnnotateAll(tasks, uc.clock.Now())
	schedule.Rank(views)
	return views, nil
}

// CreateTask validates and persists a new task owned by the principal.
func (uc *UseCase) CreateTask(ctx context.Context, principalID string, in CreateInput) (*schedule.View, error) {
	now := uc.clock.Now()

	task := &domain.Task{
		ID:             uuid.NewString(),
		Title:          in.Title,
		Description:    in.Description,
		Priority:       in.Priority,
		Status:         domain.StatusTodo,
		DueDate:        in.DueDate,
		CreatorID:      principalID,
		Tags:           in.Tags,
		IsPublic:       in.IsPublic,
		EstimatedHours: in.EstimatedHours,
	}
	if task.Priority == "" {
		task.Priority = domain.PriorityMedium
	}
	if in.Status != "" && in.Status != domain.StatusTodo {
		task.SetStatus(in.Status, now)
	}
	for _, userID := range in.Assignees {
		if err := uc.assigneeExists(ctx, userID); err != nil {
			return nil, err
		}
		task.Assign(userID, now)
	}
	if err := task.Validate(); err != nil {
		return nil, err
	}

	if _, err := uc.tasks.Create(ctx, task); err != nil {
		if !uc.shouldBuffer(ctx, usecase.OperationCreate, task) {
			return nil, err
		}
	}
	uc.record(ctx, task.ID, principalID, domain.EventTaskCreated, nil)

	view := schedule.Annotate(*task, now)
	return &view, nil
}

// UpdateTask applies a partial edit. Creator only. Status may move freely
// between the four states; the completion timestamp follows the new status.
func (uc *UseCase) UpdateTask(ctx context.Context, principalID, id string, in UpdateInput) (*schedule.View, error) {
	task, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpEdit); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	oldStatus := task.Status

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.DueDate != nil {
		task.DueDate = *in.DueDate
	}
	if in.Tags != nil {
		task.Tags = *in.Tags
	}
	if in.IsPublic != nil {
		task.IsPublic = *in.IsPublic
	}
	if in.EstimatedHours != nil {
		task.EstimatedHours = *in.EstimatedHours
	}
	if in.ActualHours != nil {
		task.ActualHours = *in.ActualHours
	}
	if in.Status != nil {
		task.SetStatus(*in.Status, now)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	if err := uc.persist(ctx, task); err != nil {
		return nil, err
	}
	uc.record(ctx, task.ID, principalID, statusEventKind(oldStatus, task.Status), nil)

	view := schedule.Annotate(*task, now)
	return &view, nil
}

// DeleteTask removes a task. Creator only.
func (uc *UseCase) DeleteTask(ctx context.Context, principalID, id string) error {
	task, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := access.Check(principalID, task, access.OpDelete); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if !uc.shouldBuffer(ctx, usecase.OperationDelete, task) {
			return err
		}
	}
	uc.record(ctx, id, principalID, domain.EventTaskDeleted, nil)
	return nil
}

// AssignUser adds an assignment. Creator only; assigning an already assigned
// user changes nothing.
func (uc *UseCase) AssignUser(ctx context.Context, principalID, taskID, userID string) (*schedule.View, error) {
	task, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpAssign); err != nil {
		return nil, err
	}
	if err := uc.assigneeExists(ctx, userID); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if task.Assign(userID, now) {
		if err := uc.persist(ctx, task); err != nil {
			return nil, err
		}
		uc.record(ctx, task.ID, principalID, domain.EventTaskAssigned, map[string]string{"user_id": userID})
	}

	view := schedule.Annotate(*task, now)
	return &view, nil
}

// UnassignUser removes an assignment. Creator only; removing a non-member is
// a no-op.
func (uc *UseCase) UnassignUser(ctx context.Context, principalID, taskID, userID string) (*schedule.View, error) {
	task, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpAssign); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if task.Unassign(userID) {
		if err := uc.persist(ctx, task); err != nil {
			return nil, err
		}
		uc.record(ctx, task.ID, principalID, domain.EventTaskUnassigned, map[string]string{"user_id": userID})
	}

	view := schedule.Annotate(*task, now)
	return &view, nil
}

// AddComment appends a comment. Open to anyone who can view the task.
func (uc *UseCase) AddComment(ctx context.Context, principalID, taskID, content string) (*schedule.View, error) {
	task, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpComment); err != nil {
		return nil, err
	}
	if err := domain.ValidateCommentContent(content); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	task.Comments = append(task.Comments, domain.Comment{
		ID:        uuid.NewString(),
		AuthorID:  principalID,
		Content:   content,
		CreatedAt: now,
	})
	if err := uc.persist(ctx, task); err != nil {
		return nil, err
	}
	uc.record(ctx, task.ID, principalID, domain.EventTaskCommented, nil)

	view := schedule.Annotate(*task, now)
	return &view, nil
}

// CompleteTask is the one-way completion shortcut, open to the creator or
// any assignee. It forces status to completed from any state; completing an
// already completed task changes nothing.
func (uc *UseCase) CompleteTask(ctx context.Context, principalID, taskID string) (*schedule.View, error) {
	task, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpComplete); err != nil {
		return nil, err
	}

	now := uc.clock.Now()
	if task.Status != domain.StatusCompleted {
		task.SetStatus(domain.StatusCompleted, now)
		if err := uc.persist(ctx, task); err != nil {
			return nil, err
		}
		uc.record(ctx, task.ID, principalID, domain.EventTaskCompleted, nil)
	}

	view := schedule.Annotate(*task, now)
	return &view, nil
}

// ListEvents returns the activity log for a task the principal can view.
func (uc *UseCase) ListEvents(ctx context.Context, principalID, taskID string, limit int) ([]domain.TaskEvent, error) {
	task, err := uc.load(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := access.Check(principalID, task, access.OpView); err != nil {
		return nil, err
	}
	if uc.events == nil {
		return nil, nil
	}
	return uc.events.ListByTask(ctx, taskID, limit)
}

func (uc *UseCase) load(ctx context.Context, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := task.CheckInvariants(); err != nil {
		uc.logger.Error("stored task violates invariants", zap.String("task_id", id), zap.Error(err))
		return nil, err
	}
	return task, nil
}

func (uc *UseCase) persist(ctx context.Context, task *domain.Task) error {
	if err := uc.tasks.Update(ctx, task); err != nil {
		if err == domain.ErrTaskNotFound {
			return err
		}
		if uc.shouldBuffer(ctx, usecase.OperationUpdate, task) {
			return nil
		}
		return err
	}
	return nil
}

func (uc *UseCase) assigneeExists(ctx context.Context, userID string) error {
	if uc.users == nil {
		return nil
	}
	if _, err := uc.users.GetByID(ctx, userID); err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return domain.ErrAssigneeNotFound
		}
		return err
	}
	return nil
}

func (uc *UseCase) record(ctx context.Context, taskID, actorID string, kind domain.EventKind, metadata map[string]string) {
	if uc.events == nil {
		return
	}
	event := &domain.TaskEvent{
		TaskID:    taskID,
		ActorID:   actorID,
		Kind:      kind,
		Metadata:  metadata,
		CreatedAt: uc.clock.Now(),
	}
	if err := uc.events.Append(ctx, event); err != nil {
		uc.logger.Warn("failed to append task event",
			zap.String("task_id", taskID),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
}

func (uc *UseCase) shouldBuffer(ctx context.Context, operation string, task *domain.Task) bool {
	if uc.buffer == nil {
		return false
	}
	if err := uc.buffer.BufferTask(ctx, operation, task); err != nil {
		uc.logger.Error("failed to buffer task operation", zap.String("operation", operation), zap.Error(err))
		return false
	}
	uc.logger.Warn("task operation buffered", zap.String("operation", operation))
	return true
}

func statusEventKind(oldStatus, newStatus domain.Status) domain.EventKind {
	switch {
	case oldStatus != domain.StatusCompleted && newStatus == domain.StatusCompleted:
		return domain.EventTaskCompleted
	case oldStatus == domain.StatusCompleted && newStatus != domain.StatusCompleted:
		return domain.EventTaskReopened
	default:
		return domain.EventTaskUpdated
	}
}
