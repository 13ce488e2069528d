package schedule

import "github.com/taskhive/backend/domain"

// Escalate derives the effective priority used for ranking and display.
// A task that is due soon is raised to at least high; urgent is never
// downgraded. The stored priority is left untouched — the second return
// value tells callers whether to render an auto-upgrade indicator.
func Escalate(stored domain.Priority, dueSoon bool) (domain.Priority, bool) {
	if dueSoon && stored.Weight() < domain.PriorityHigh.Weight() {
		return domain.PriorityHigh, true
	}
	return stored, false
}
