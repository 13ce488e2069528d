// Package access decides whether a principal may perform an operation on a
// task. The policy is a fixed capability table over the task's creator,
// assignees and public flag; there is no role hierarchy and no admin
// override.
package access

import "github.com/taskhive/backend/domain"

// Operation names a capability a principal may request on a task.
type Operation string

const (
	OpView     Operation = "view"
	OpEdit     Operation = "edit"
	OpDelete   Operation = "delete"
	OpAssign   Operation = "assign"
	OpComplete Operation = "complete"
	OpComment  Operation = "comment"
)

// Decision is the outcome of an access check. Denial is an ordinary value so
// callers can map it to a uniform access-denied response.
type Decision struct {
	Allowed   bool
	Operation Operation
}

// Deny converts a negative decision into the shared access-denied error.
// Allowed decisions yield nil.
func (d Decision) Deny() error {
	if d.Allowed {
		return nil
	}
	return domain.ErrAccessDenied
}

// Evaluate applies the capability table:
//
//	view, comment  — creator, any assignee, or anyone when the task is public
//	complete       — creator or any assignee
//	edit, delete, assign — creator only
//
// Unknown operations are always denied.
func Evaluate(principalID string, task *domain.Task, op Operation) Decision {
	if principalID == "" || task == nil {
		return Decision{Operation: op}
	}

	creator := task.CreatorID == principalID
	assignee := task.IsAssignee(principalID)

	var allowed bool
	switch op {
	case OpView, OpComment:
		allowed = creator || assignee || task.IsPublic
	case OpComplete:
		allowed = creator || assignee
	case OpEdit, OpDelete, OpAssign:
		allowed = creator
	}

	return Decision{Allowed: allowed, Operation: op}
}

// Check is a convenience wrapper returning domain.ErrAccessDenied on denial.
func Check(principalID string, task *domain.Task, op Operation) error {
	return Evaluate(principalID, task, op).Deny()
}
