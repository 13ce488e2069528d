package task_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/taskhive/backend/domain"
	"github.com/taskhive/backend/pkg/clock"
	"github.com/taskhive/backend/repository"
	taskUC "github.com/taskhive/backend/usecase/task"
)

var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeTaskRepo stores deep copies so aborted mutations cannot leak into the
// stored state, matching how a real persistence round-trip behaves.
type fakeTaskRepo struct {
	tasks map[string]*domain.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: make(map[string]*domain.Task)}
}

func cloneTask(task *domain.Task) *domain.Task {
	raw, _ := json.Marshal(task)
	var out domain.Task
	_ = json.Unmarshal(raw, &out)
	return &out
}

func (r *fakeTaskRepo) GetByID(_ context.Context, id string) (*domain.Task, error) {
	task, ok := r.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

func (r *fakeTaskRepo) List(_ context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	var out []domain.Task
	for _, task := range r.tasks {
		if filter.VisibleTo != "" && task.CreatorID != filter.VisibleTo && !task.IsAssignee(filter.VisibleTo) {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		out = append(out, *cloneTask(task))
	}
	return out, nil
}

func (r *fakeTaskRepo) Create(_ context.Context, task *domain.Task) (*domain.Task, error) {
	r.tasks[task.ID] = cloneTask(task)
	return task, nil
}

func (r *fakeTaskRepo) Update(_ context.Context, task *domain.Task) error {
	if _, ok := r.tasks[task.ID]; !ok {
		return domain.ErrTaskNotFound
	}
	r.tasks[task.ID] = cloneTask(task)
	return nil
}

func (r *fakeTaskRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(r.tasks, id)
	return nil
}

type fakeUserRepo struct {
	users map[string]*domain.User
}

func newFakeUserRepo(ids ...string) *fakeUserRepo {
	users := make(map[string]*domain.User, len(ids))
	for _, id := range ids {
		users[id] = &domain.User{ID: id, Status: "active"}
	}
	return &fakeUserRepo{users: users}
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) Upsert(_ context.Context, user *domain.User) error {
	r.users[user.ID] = user
	return nil
}

type fakeEventRepo struct {
	events []domain.TaskEvent
}

func (r *fakeEventRepo) Append(_ context.Context, event *domain.TaskEvent) error {
	r.events = append(r.events, *event)
	return nil
}

func (r *fakeEventRepo) ListByTask(_ context.Context, taskID string, _ int) ([]domain.TaskEvent, error) {
	var out []domain.TaskEvent
	for _, event := range r.events {
		if event.TaskID == taskID {
			out = append(out, event)
		}
	}
	return out, nil
}

type testEnv struct {
	uc     *taskUC.UseCase
	tasks  *fakeTaskRepo
	events *fakeEventRepo
	ctx    context.Context
}

func newTestEnv(t *testing.T, userIDs ...string) testEnv {
	t.Helper()
	tasks := newFakeTaskRepo()
	events := &fakeEventRepo{}
	uc := taskUC.New(tasks, newFakeUserRepo(userIDs...), events, nil, clock.At(fixedNow), nil)
	return testEnv{uc: uc, tasks: tasks, events: events, ctx: context.Background()}
}

func mustCreate(t *testing.T, env testEnv, creatorID string, in taskUC.CreateInput) string {
	t.Helper()
	if in.Title == "" {
		in.Title = "test task"
	}
	if in.DueDate.IsZero() {
		in.DueDate = fixedNow.Add(72 * time.Hour)
	}
	view, err := env.uc.CreateTask(env.ctx, creatorID, in)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return view.ID
}

func TestCreateTaskDefaults(t *testing.T) {
	env := newTestEnv(t, "alice")

	view, err := env.uc.CreateTask(env.ctx, "alice", taskUC.CreateInput{
		Title:   "plan launch",
		DueDate: fixedNow.Add(10 * 24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if view.Priority != domain.PriorityMedium {
		t.Errorf("default priority = %s, want medium", view.Priority)
	}
	if view.Status != domain.StatusTodo {
		t.Errorf("default status = %s, want todo", view.Status)
	}
	if view.CreatorID != "alice" {
		t.Errorf("creator = %s, want alice", view.CreatorID)
	}
	if view.CompletedAt != nil {
		t.Error("new task must not carry a completion timestamp")
	}
}

func TestCreateTaskValidation(t *testing.T) {
	env := newTestEnv(t, "alice")

	_, err := env.uc.CreateTask(env.ctx, "alice", taskUC.CreateInput{DueDate: fixedNow.Add(time.Hour)})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("missing title: got %v, want INVALID", err)
	}

	_, err = env.uc.CreateTask(env.ctx, "alice", taskUC.CreateInput{Title: "x"})
	if !domain.IsDomainError(err, domain.ErrCodeInvalid) {
		t.Errorf("missing due date: got %v, want INVALID", err)
	}

	_, err = env.uc.CreateTask(env.ctx, "alice", taskUC.CreateInput{
		Title:     "x",
		DueDate:   fixedNow.Add(time.Hour),
		Assignees: []string{"ghost"},
	})
	if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("unknown assignee: got %v, want NOT_FOUND", err)
	}
}

func TestCompleteByAssignee(t *testing.T) {
	env := newTestEnv(t, "alice", "bob")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})

	if _, err := env.uc.AssignUser(env.ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	view, err := env.uc.CompleteTask(env.ctx, "bob", id)
	if err != nil {
		t.Fatalf("complete by assignee: %v", err)
	}
	if view.Status != domain.StatusCompleted {
		t.Errorf("status = %s, want completed", view.Status)
	}
	if view.CompletedAt == nil || !view.CompletedAt.Equal(fixedNow) {
		t.Errorf("CompletedAt = %v, want %v", view.CompletedAt, fixedNow)
	}

	stored, _ := env.tasks.GetByID(env.ctx, id)
	if err := stored.CheckInvariants(); err != nil {
		t.Errorf("stored task violates invariants: %v", err)
	}
}

func TestCompleteDeniedForStranger(t *testing.T) {
	env := newTestEnv(t, "alice", "mallory")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{IsPublic: true})

	// Public grants view and comment, never completion.
	_, err := env.uc.CompleteTask(env.ctx, "mallory", id)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("got %v, want FORBIDDEN", err)
	}

	stored, _ := env.tasks.GetByID(env.ctx, id)
	if stored.Status != domain.StatusTodo {
		t.Errorf("denied completion mutated status to %s", stored.Status)
	}
}

func TestCommentAccess(t *testing.T) {
	env := newTestEnv(t, "alice", "mallory")
	privateID := mustCreate(t, env, "alice", taskUC.CreateInput{})
	publicID := mustCreate(t, env, "alice", taskUC.CreateInput{IsPublic: true})

	_, err := env.uc.AddComment(env.ctx, "mallory", privateID, "hello")
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("private comment: got %v, want FORBIDDEN", err)
	}
	stored, _ := env.tasks.GetByID(env.ctx, privateID)
	if len(stored.Comments) != 0 {
		t.Error("denied comment was persisted")
	}

	view, err := env.uc.AddComment(env.ctx, "mallory", publicID, "hello")
	if err != nil {
		t.Fatalf("public comment: %v", err)
	}
	if len(view.Comments) != 1 || view.Comments[0].AuthorID != "mallory" {
		t.Fatalf("unexpected comments: %+v", view.Comments)
	}
	if !view.Comments[0].CreatedAt.Equal(fixedNow) {
		t.Errorf("comment timestamp = %v, want %v", view.Comments[0].CreatedAt, fixedNow)
	}
}

func TestReopenClearsCompletedAt(t *testing.T) {
	env := newTestEnv(t, "alice")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})

	if _, err := env.uc.CompleteTask(env.ctx, "alice", id); err != nil {
		t.Fatalf("complete: %v", err)
	}

	status := domain.StatusInProgress
	view, err := env.uc.UpdateTask(env.ctx, "alice", id, taskUC.UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	if view.Status != domain.StatusInProgress {
		t.Errorf("status = %s, want in-progress", view.Status)
	}
	if view.CompletedAt != nil {
		t.Errorf("CompletedAt = %v after reopening, want nil", view.CompletedAt)
	}

	stored, _ := env.tasks.GetByID(env.ctx, id)
	if err := stored.CheckInvariants(); err != nil {
		t.Errorf("stored task violates invariants: %v", err)
	}
}

func TestEditStatusSetsCompletedAt(t *testing.T) {
	env := newTestEnv(t, "alice")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})

	status := domain.StatusCompleted
	view, err := env.uc.UpdateTask(env.ctx, "alice", id, taskUC.UpdateInput{Status: &status})
	if err != nil {
		t.Fatalf("edit to completed: %v", err)
	}
	if view.CompletedAt == nil || !view.CompletedAt.Equal(fixedNow) {
		t.Errorf("CompletedAt = %v, want %v", view.CompletedAt, fixedNow)
	}
}

func TestEditDeniedForAssignee(t *testing.T) {
	env := newTestEnv(t, "alice", "bob")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})
	if _, err := env.uc.AssignUser(env.ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("assign: %v", err)
	}

	title := "hijacked"
	_, err := env.uc.UpdateTask(env.ctx, "bob", id, taskUC.UpdateInput{Title: &title})
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("got %v, want FORBIDDEN", err)
	}

	stored, _ := env.tasks.GetByID(env.ctx, id)
	if stored.Title == "hijacked" {
		t.Error("denied edit was persisted")
	}

	if err := env.uc.DeleteTask(env.ctx, "bob", id); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Fatalf("delete by assignee: got %v, want FORBIDDEN", err)
	}
}

func TestAssignmentIdempotence(t *testing.T) {
	env := newTestEnv(t, "alice", "bob")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})

	first, err := env.uc.AssignUser(env.ctx, "alice", id, "bob")
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	second, err := env.uc.AssignUser(env.ctx, "alice", id, "bob")
	if err != nil {
		t.Fatalf("second assign: %v", err)
	}
	if len(first.Assignees) != 1 || len(second.Assignees) != 1 {
		t.Fatalf("assignments = %d then %d, want 1 and 1", len(first.Assignees), len(second.Assignees))
	}

	view, err := env.uc.UnassignUser(env.ctx, "alice", id, "ghost")
	if err != nil {
		t.Fatalf("unassign non-member: %v", err)
	}
	if len(view.Assignees) != 1 {
		t.Errorf("unassigning a non-member changed assignments: %d", len(view.Assignees))
	}

	if _, err := env.uc.AssignUser(env.ctx, "bob", id, "bob"); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("self-assign by non-creator: got %v, want FORBIDDEN", err)
	}
}

func TestListRanked(t *testing.T) {
	env := newTestEnv(t, "alice")

	lateID := mustCreate(t, env, "alice", taskUC.CreateInput{
		Title:    "overdue low",
		Priority: domain.PriorityLow,
		DueDate:  fixedNow.Add(-10 * time.Hour),
	})
	farID := mustCreate(t, env, "alice", taskUC.CreateInput{
		Title:    "urgent later",
		Priority: domain.PriorityUrgent,
		DueDate:  fixedNow.Add(5 * 24 * time.Hour),
	})

	views, err := env.uc.ListTasks(env.ctx, "alice", repository.TaskFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}
	if views[0].ID != lateID || views[1].ID != farID {
		t.Errorf("order = [%s %s], want overdue first", views[0].ID, views[1].ID)
	}
	if !views[0].IsOverdue || views[0].EffectivePriority != domain.PriorityHigh {
		t.Errorf("overdue task facts wrong: %+v", views[0].DueFacts)
	}
}

func TestGetTaskVisibility(t *testing.T) {
	env := newTestEnv(t, "alice", "mallory")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})

	if _, err := env.uc.GetTask(env.ctx, "mallory", id); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("stranger view: got %v, want FORBIDDEN", err)
	}
	if _, err := env.uc.GetTask(env.ctx, "alice", "missing"); !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		t.Errorf("missing task: got %v, want NOT_FOUND", err)
	}
}

func TestInvariantViolationSurfaced(t *testing.T) {
	env := newTestEnv(t, "alice")
	completedAt := fixedNow

	env.tasks.tasks["corrupt"] = &domain.Task{
		ID:          "corrupt",
		Title:       "broken record",
		Priority:    domain.PriorityMedium,
		Status:      domain.StatusTodo,
		DueDate:     fixedNow.Add(time.Hour),
		CreatorID:   "alice",
		CompletedAt: &completedAt,
	}

	_, err := env.uc.GetTask(env.ctx, "alice", "corrupt")
	if !domain.IsDomainError(err, domain.ErrCodeInvariant) {
		t.Errorf("got %v, want INVARIANT", err)
	}
}

func TestEventLog(t *testing.T) {
	env := newTestEnv(t, "alice", "bob")
	id := mustCreate(t, env, "alice", taskUC.CreateInput{})

	if _, err := env.uc.AssignUser(env.ctx, "alice", id, "bob"); err != nil {
		t.Fatalf("assign: %v", err)
	}
	if _, err := env.uc.CompleteTask(env.ctx, "bob", id); err != nil {
		t.Fatalf("complete: %v", err)
	}

	events, err := env.uc.ListEvents(env.ctx, "alice", id, 10)
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	want := []domain.EventKind{domain.EventTaskCreated, domain.EventTaskAssigned, domain.EventTaskCompleted}
	if len(events) != len(want) {
		t.Fatalf("got %d events, want %d", len(events), len(want))
	}
	for i, kind := range want {
		if events[i].Kind != kind {
			t.Errorf("event[%d] = %s, want %s", i, events[i].Kind, kind)
		}
	}

	if _, err := env.uc.ListEvents(env.ctx, "mallory", id, 10); !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("stranger event access: got %v, want FORBIDDEN", err)
	}
}
