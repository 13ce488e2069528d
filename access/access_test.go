package access

import (
	"testing"
	"time"

	"github.com/taskhive/backend/domain"
)

const (
	creatorID  = "user-creator"
	assigneeID = "user-assignee"
	strangerID = "user-stranger"
)

func testTask(public bool) *domain.Task {
	return &domain.Task{
		ID:        "task-1",
		CreatorID: creatorID,
		IsPublic:  public,
		Assignees: []domain.Assignment{
			{UserID: assigneeID, AssignedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
	}
}

var allOps = []Operation{OpView, OpEdit, OpDelete, OpAssign, OpComplete, OpComment}

func TestEvaluateCapabilityTable(t *testing.T) {
	tests := []struct {
		name      string
		principal string
		public    bool
		op        Operation
		allowed   bool
	}{
		{"creator views", creatorID, false, OpView, true},
		{"creator edits", creatorID, false, OpEdit, true},
		{"creator deletes", creatorID, false, OpDelete, true},
		{"creator assigns", creatorID, false, OpAssign, true},
		{"creator completes", creatorID, false, OpComplete, true},
		{"creator comments", creatorID, false, OpComment, true},

		{"assignee views", assigneeID, false, OpView, true},
		{"assignee cannot edit", assigneeID, false, OpEdit, false},
		{"assignee cannot delete", assigneeID, false, OpDelete, false},
		{"assignee cannot assign", assigneeID, false, OpAssign, false},
		{"assignee completes", assigneeID, false, OpComplete, true},
		{"assignee comments", assigneeID, false, OpComment, true},

		{"stranger cannot view private", strangerID, false, OpView, false},
		{"stranger cannot comment private", strangerID, false, OpComment, false},
		{"stranger views public", strangerID, true, OpView, true},
		{"stranger comments public", strangerID, true, OpComment, true},
		{"stranger cannot edit public", strangerID, true, OpEdit, false},
		{"stranger cannot delete public", strangerID, true, OpDelete, false},
		{"stranger cannot assign public", strangerID, true, OpAssign, false},
		{"stranger cannot complete public", strangerID, true, OpComplete, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := Evaluate(tt.principal, testTask(tt.public), tt.op)
			if decision.Allowed != tt.allowed {
				t.Errorf("Evaluate(%s, public=%v, %s) = %v, want %v",
					tt.principal, tt.public, tt.op, decision.Allowed, tt.allowed)
			}
		})
	}
}

func TestViewIsMinimumCapability(t *testing.T) {
	// A principal denied view must be denied everything else too.
	task := testTask(false)
	if Evaluate(strangerID, task, OpView).Allowed {
		t.Fatal("expected stranger to be denied view")
	}
	for _, op := range allOps {
		if Evaluate(strangerID, task, op).Allowed {
			t.Errorf("stranger denied view but allowed %s", op)
		}
	}
}

func TestEvaluateEdgeCases(t *testing.T) {
	if Evaluate("", testTask(true), OpView).Allowed {
		t.Error("empty principal must be denied")
	}
	if Evaluate(creatorID, nil, OpView).Allowed {
		t.Error("nil task must be denied")
	}
	if Evaluate(creatorID, testTask(false), Operation("publish")).Allowed {
		t.Error("unknown operation must be denied")
	}
}

func TestDeny(t *testing.T) {
	if err := Check(creatorID, testTask(false), OpEdit); err != nil {
		t.Errorf("unexpected error for allowed operation: %v", err)
	}
	err := Check(strangerID, testTask(false), OpEdit)
	if !domain.IsDomainError(err, domain.ErrCodeForbidden) {
		t.Errorf("expected forbidden error, got %v", err)
	}
}
