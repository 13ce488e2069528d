package schedule

import (
	"sort"
	"time"

	"github.com/taskhive/backend/domain"
)

// View pairs a task with its derived facts for one instant. API responses
// serialize views, never bare tasks, so badges and list order always agree.
type View struct {
	domain.Task
	DueFacts
	EffectivePriority domain.Priority `json:"effective_priority"`
	WasEscalated      bool            `json:"was_escalated"`
}

// Annotate computes the derived facts for a single task at the given instant.
func Annotate(task domain.Task, now time.Time) View {
	facts := Classify(task.DueDate, task.Status, now)
	effective, escalated := Escalate(task.Priority, facts.IsDueSoon)
	return View{
		Task:              task,
		DueFacts:          facts,
		EffectivePriority: effective,
		WasEscalated:      escalated,
	}
}

// AnnotateAll annotates a collection against a single shared instant.
func AnnotateAll(tasks []domain.Task, now time.Time) []View {
	views := make([]View, len(tasks))
	for i, task := range tasks {
		views[i] = Annotate(task, now)
	}
	return views
}

// Rank orders views in place for display. The comparison keys, in strict
// precedence: overdue before not-overdue; among overdue, the more overdue
// first; effective priority weight descending; status weight descending;
// days until due ascending. The sort is stable, so a fixed input ordering
// always yields the same output.
func Rank(views []View) {
	sort.SliceStable(views, func(i, j int) bool {
		return Less(views[i], views[j])
	})
}

// Less reports whether a sorts strictly before b under the ranking keys.
func Less(a, b View) bool {
	if a.IsOverdue != b.IsOverdue {
		return a.IsOverdue
	}
	if a.IsOverdue && b.IsOverdue && a.DaysUntilDue != b.DaysUntilDue {
		return a.DaysUntilDue < b.DaysUntilDue
	}
	if aw, bw := a.EffectivePriority.Weight(), b.EffectivePriority.Weight(); aw != bw {
		return aw > bw
	}
	if aw, bw := a.Status.Weight(), b.Status.Weight(); aw != bw {
		return aw > bw
	}
	return a.DaysUntilDue < b.DaysUntilDue
}
