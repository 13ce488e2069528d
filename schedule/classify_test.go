package schedule

import (
	"testing"
	"time"

	"github.com/taskhive/backend/domain"
)

var refNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func TestClassifyDayCount(t *testing.T) {
	tests := []struct {
		name     string
		due      time.Time
		status   domain.Status
		wantDays int
		overdue  bool
		dueSoon  bool
	}{
		{
			name:     "due a full day ago",
			due:      refNow.Add(-24 * time.Hour),
			status:   domain.StatusTodo,
			wantDays: -1,
			overdue:  true,
			dueSoon:  false,
		},
		{
			name:     "missed earlier the same day",
			due:      refNow.Add(-3 * time.Hour),
			status:   domain.StatusTodo,
			wantDays: 0,
			overdue:  true,
			dueSoon:  true,
		},
		{
			name:     "due later today",
			due:      refNow.Add(3 * time.Hour),
			status:   domain.StatusInProgress,
			wantDays: 1,
			overdue:  false,
			dueSoon:  true,
		},
		{
			name:     "due in just under two days",
			due:      refNow.Add(47 * time.Hour),
			status:   domain.StatusTodo,
			wantDays: 2,
			overdue:  false,
			dueSoon:  true,
		},
		{
			name:     "due in just over two days",
			due:      refNow.Add(49 * time.Hour),
			status:   domain.StatusTodo,
			wantDays: 3,
			overdue:  false,
			dueSoon:  false,
		},
		{
			name:     "due in five days",
			due:      refNow.Add(5 * 24 * time.Hour),
			status:   domain.StatusReview,
			wantDays: 5,
			overdue:  false,
			dueSoon:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			facts := Classify(tt.due, tt.status, refNow)
			if facts.DaysUntilDue != tt.wantDays {
				t.Errorf("DaysUntilDue = %d, want %d", facts.DaysUntilDue, tt.wantDays)
			}
			if facts.IsOverdue != tt.overdue {
				t.Errorf("IsOverdue = %v, want %v", facts.IsOverdue, tt.overdue)
			}
			if facts.IsDueSoon != tt.dueSoon {
				t.Errorf("IsDueSoon = %v, want %v", facts.IsDueSoon, tt.dueSoon)
			}
		})
	}
}

func TestClassifyCompletedSuppressesOverdue(t *testing.T) {
	due := refNow.Add(-24 * time.Hour)

	facts := Classify(due, domain.StatusCompleted, refNow)
	if facts.IsOverdue {
		t.Error("completed task must never be overdue")
	}
	if facts.IsDueSoon {
		t.Error("completed task must never be due soon")
	}

	facts = Classify(refNow.Add(time.Hour), domain.StatusCompleted, refNow)
	if facts.IsDueSoon {
		t.Error("completed task due within the window must not be due soon")
	}
}

func TestClassifyDeterministic(t *testing.T) {
	due := refNow.Add(36 * time.Hour)
	first := Classify(due, domain.StatusTodo, refNow)
	second := Classify(due, domain.StatusTodo, refNow)
	if first != second {
		t.Errorf("classification not deterministic: %+v vs %+v", first, second)
	}
}
