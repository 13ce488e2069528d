package domain

import "time"

// Priority is the stored priority of a task. It is only ever changed by an
// explicit edit; due-date escalation produces a separate display value and
// must never be written back here.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Weight returns the ranking weight of a priority. Unknown values weigh 0 so
// they sort after every known priority.
func (p Priority) Weight() int {
	switch p {
	case PriorityUrgent:
		return 5
	case PriorityHigh:
		return 4
	case PriorityMedium:
		return 3
	case PriorityLow:
		return 2
	default:
		return 0
	}
}

func (p Priority) Valid() bool {
	return p.Weight() > 0
}

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in-progress"
	StatusReview     Status = "review"
	StatusCompleted  Status = "completed"
)

// Weight returns the ranking weight of a status. Completed work sorts after
// anything active, regardless of residual priority.
func (s Status) Weight() int {
	switch s {
	case StatusInProgress:
		return 4
	case StatusReview:
		return 3
	case StatusTodo:
		return 2
	case StatusCompleted:
		return 1
	default:
		return 0
	}
}

func (s Status) Valid() bool {
	return s.Weight() > 0
}

// Assignment links a user to a task. A task holds at most one assignment per
// user.
type Assignment struct {
	UserID     string    `json:"user_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Comment is an append-only note on a task. Comments are never edited or
// removed.
type Comment struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Task is the aggregate root of the system. CreatorID is immutable after
// creation; CompletedAt is non-nil exactly when Status is completed.
type Task struct {
	ID             string       `json:"id"`
	Title          string       `json:"title"`
	Description    string       `json:"description,omitempty"`
	Priority       Priority     `json:"priority"`
	Status         Status       `json:"status"`
	DueDate        time.Time    `json:"due_date"`
	CompletedAt    *time.Time   `json:"completed_at,omitempty"`
	CreatorID      string       `json:"creator_id"`
	Assignees      []Assignment `json:"assignees,omitempty"`
	Tags           []string     `json:"tags,omitempty"`
	Comments       []Comment    `json:"comments,omitempty"`
	IsPublic       bool         `json:"is_public"`
	EstimatedHours float64      `json:"estimated_hours"`
	ActualHours    float64      `json:"actual_hours"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}

// IsAssignee reports whether the given user currently holds an assignment.
func (t *Task) IsAssignee(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	for _, a := range t.Assignees {
		if a.UserID == userID {
			return true
		}
	}
	return false
}

// Assign adds an assignment for the user at the given instant. Assigning a
// user who already holds an assignment is a no-op.
func (t *Task) Assign(userID string, at time.Time) bool {
	if t.IsAssignee(userID) {
		return false
	}
	t.Assignees = append(t.Assignees, Assignment{UserID: userID, AssignedAt: at})
	return true
}

// Unassign removes the user's assignment. Removing an absent user is a no-op.
func (t *Task) Unassign(userID string) bool {
	for i, a := range t.Assignees {
		if a.UserID == userID {
			t.Assignees = append(t.Assignees[:i], t.Assignees[i+1:]...)
			return true
		}
	}
	return false
}

// SetStatus moves the task to the given status and maintains the CompletedAt
// invariant: it is stamped on the transition into completed and cleared on
// any transition out of it.
func (t *Task) SetStatus(status Status, now time.Time) {
	if status == StatusCompleted {
		if t.Status != StatusCompleted {
			completedAt := now
			t.CompletedAt = &completedAt
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

// CheckInvariants verifies the stored-state invariants that must hold for
// every persisted task. A violation indicates a bug in whoever constructed
// the record, not a recoverable condition.
func (t *Task) CheckInvariants() error {
	if t == nil {
		return NewError(ErrCodeInvariant, "nil task")
	}
	if t.Status == StatusCompleted && t.CompletedAt == nil {
		return NewError(ErrCodeInvariant, "completed task without completion timestamp")
	}
	if t.Status != StatusCompleted && t.CompletedAt != nil {
		return NewError(ErrCodeInvariant, "completion timestamp on non-completed task")
	}
	seen := make(map[string]struct{}, len(t.Assignees))
	for _, a := range t.Assignees {
		if _, dup := seen[a.UserID]; dup {
			return NewError(ErrCodeInvariant, "duplicate assignment for user "+a.UserID)
		}
		seen[a.UserID] = struct{}{}
	}
	return nil
}
