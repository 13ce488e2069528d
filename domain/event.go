package domain

import "time"

// EventKind names a recorded change to a task.
type EventKind string

const (
	EventTaskCreated    EventKind = "task.created"
	EventTaskUpdated    EventKind = "task.updated"
	EventTaskAssigned   EventKind = "task.assigned"
	EventTaskUnassigned EventKind = "task.unassigned"
	EventTaskCommented  EventKind = "task.commented"
	EventTaskCompleted  EventKind = "task.completed"
	EventTaskReopened   EventKind = "task.reopened"
	EventTaskDeleted    EventKind = "task.deleted"
)

// TaskEvent is an immutable audit record appended after each successful
// mutation. Events are never updated or deleted.
type TaskEvent struct {
	ID        string            `json:"id"`
	TaskID    string            `json:"task_id"`
	ActorID   string            `json:"actor_id"`
	Kind      EventKind         `json:"kind"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
