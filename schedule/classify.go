// Package schedule holds the pure temporal logic of the system: due-date
// classification, priority escalation and the display ranking of task
// collections. Nothing here reads the wall clock or touches storage; callers
// pass the reference instant explicitly.
package schedule

import (
	"math"
	"time"

	"github.com/taskhive/backend/domain"
)

// DueFacts are the derived temporal facts for one task at a given instant.
// They are recomputed on every read and never persisted.
type DueFacts struct {
	DaysUntilDue int  `json:"days_until_due"`
	IsOverdue    bool `json:"is_overdue"`
	IsDueSoon    bool `json:"is_due_soon"`
}

// dueSoonWindowDays is the number of remaining days at or below which an
// incomplete task counts as due soon.
const dueSoonWindowDays = 2

// Classify derives the temporal facts for a due date and status relative to
// now. The day count uses a ceiling so a due date later today reports 0 and
// one missed earlier today is not reported as a full day overdue. Completed
// tasks are never overdue or due soon.
func Classify(dueDate time.Time, status domain.Status, now time.Time) DueFacts {
	days := int(math.Ceil(dueDate.Sub(now).Hours() / 24))
	completed := status == domain.StatusCompleted

	return DueFacts{
		DaysUntilDue: days,
		IsOverdue:    !completed && dueDate.Before(now),
		IsDueSoon:    !completed && days >= 0 && days <= dueSoonWindowDays,
	}
}
