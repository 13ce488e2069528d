package domain

import (
	"strings"
	"testing"
	"time"
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func validTask() *Task {
	return &Task{
		ID:        "task-1",
		Title:     "write report",
		Priority:  PriorityMedium,
		Status:    StatusTodo,
		DueDate:   testNow.Add(48 * time.Hour),
		CreatorID: "user-1",
	}
}

func TestTaskValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{"valid", func(*Task) {}, false},
		{"empty title", func(task *Task) { task.Title = "" }, true},
		{"whitespace title", func(task *Task) { task.Title = "   " }, true},
		{"title too long", func(task *Task) { task.Title = strings.Repeat("x", MaxTitleLen+1) }, true},
		{"title at limit", func(task *Task) { task.Title = strings.Repeat("x", MaxTitleLen) }, false},
		{"description too long", func(task *Task) { task.Description = strings.Repeat("x", MaxDescriptionLen+1) }, true},
		{"unknown priority", func(task *Task) { task.Priority = "critical" }, true},
		{"unknown status", func(task *Task) { task.Status = "pending" }, true},
		{"missing due date", func(task *Task) { task.DueDate = time.Time{} }, true},
		{"tag too long", func(task *Task) { task.Tags = []string{strings.Repeat("x", MaxTagLen+1)} }, true},
		{"negative estimated hours", func(task *Task) { task.EstimatedHours = -1 }, true},
		{"negative actual hours", func(task *Task) { task.ActualHours = -0.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := validTask()
			tt.mutate(task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !IsDomainError(err, ErrCodeInvalid) {
				t.Errorf("expected INVALID error code, got %v", err)
			}
		})
	}
}

func TestSetStatusMaintainsCompletedAt(t *testing.T) {
	task := validTask()

	task.SetStatus(StatusCompleted, testNow)
	if task.CompletedAt == nil || !task.CompletedAt.Equal(testNow) {
		t.Fatalf("CompletedAt = %v, want %v", task.CompletedAt, testNow)
	}

	// Completing an already completed task keeps the original timestamp.
	later := testNow.Add(time.Hour)
	task.SetStatus(StatusCompleted, later)
	if !task.CompletedAt.Equal(testNow) {
		t.Errorf("CompletedAt moved to %v on redundant completion", task.CompletedAt)
	}

	// Reopening clears it.
	task.SetStatus(StatusInProgress, later)
	if task.CompletedAt != nil {
		t.Errorf("CompletedAt = %v after reopening, want nil", task.CompletedAt)
	}

	if err := task.CheckInvariants(); err != nil {
		t.Errorf("invariants violated after transitions: %v", err)
	}
}

func TestAssignIdempotent(t *testing.T) {
	task := validTask()

	if !task.Assign("user-2", testNow) {
		t.Fatal("first assignment should report a change")
	}
	if task.Assign("user-2", testNow.Add(time.Hour)) {
		t.Error("second assignment should be a no-op")
	}
	if len(task.Assignees) != 1 {
		t.Fatalf("got %d assignments, want 1", len(task.Assignees))
	}
	if !task.Assignees[0].AssignedAt.Equal(testNow) {
		t.Error("original assignment timestamp overwritten")
	}

	if task.Unassign("user-absent") {
		t.Error("removing a non-member should be a no-op")
	}
	if !task.Unassign("user-2") {
		t.Error("removing a member should report a change")
	}
	if len(task.Assignees) != 0 {
		t.Errorf("got %d assignments after removal, want 0", len(task.Assignees))
	}
}

func TestCheckInvariants(t *testing.T) {
	task := validTask()
	if err := task.CheckInvariants(); err != nil {
		t.Fatalf("valid task flagged: %v", err)
	}

	completedAt := testNow
	corrupt := validTask()
	corrupt.CompletedAt = &completedAt
	if err := corrupt.CheckInvariants(); !IsDomainError(err, ErrCodeInvariant) {
		t.Errorf("expected invariant error for stray CompletedAt, got %v", err)
	}

	corrupt = validTask()
	corrupt.Status = StatusCompleted
	if err := corrupt.CheckInvariants(); !IsDomainError(err, ErrCodeInvariant) {
		t.Errorf("expected invariant error for completed without timestamp, got %v", err)
	}

	corrupt = validTask()
	corrupt.Assignees = []Assignment{
		{UserID: "user-2", AssignedAt: testNow},
		{UserID: "user-2", AssignedAt: testNow},
	}
	if err := corrupt.CheckInvariants(); !IsDomainError(err, ErrCodeInvariant) {
		t.Errorf("expected invariant error for duplicate assignment, got %v", err)
	}
}

func TestValidateCommentContent(t *testing.T) {
	if err := ValidateCommentContent(""); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("empty content: got %v", err)
	}
	if err := ValidateCommentContent(strings.Repeat("x", MaxCommentLen+1)); !IsDomainError(err, ErrCodeInvalid) {
		t.Errorf("oversized content: got %v", err)
	}
	if err := ValidateCommentContent("looks good"); err != nil {
		t.Errorf("valid content rejected: %v", err)
	}
}
