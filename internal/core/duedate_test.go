package core

import (
	"testing"
	"time"

	"github.com/avierra/taskwell/pkg/models"
)

var classifyNow = time.Date(2026, 6, 15, 10, 0, 0, 0, time.Local)

func at(t time.Time) *time.Time { return &t }

func TestClassifyDueDate(t *testing.T) {
	cases := []struct {
		name      string
		dueAt     *time.Time
		completed bool
		want      models.Urgency
	}{
		{"no due date", nil, false, models.UrgencyNone},
		{"completed task", at(classifyNow.Add(-time.Hour)), true, models.UrgencyNone},
		{"completed without due date", nil, true, models.UrgencyNone},
		{"overdue", at(classifyNow.Add(-time.Minute)), false, models.UrgencyOverdue},
		{"overdue yesterday", at(classifyNow.AddDate(0, 0, -1)), false, models.UrgencyOverdue},
		{"due later today", at(time.Date(2026, 6, 15, 23, 0, 0, 0, time.Local)), false, models.UrgencyDueToday},
		{"due tomorrow", at(classifyNow.AddDate(0, 0, 1)), false, models.UrgencyUpcoming},
		{"due in exactly three days", at(classifyNow.Add(72 * time.Hour)), false, models.UrgencyUpcoming},
		{"due beyond three days", at(classifyNow.Add(72*time.Hour + time.Minute)), false, models.UrgencyFuture},
		{"due next month", at(classifyNow.AddDate(0, 1, 0)), false, models.UrgencyFuture},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClassifyDueDate(tc.dueAt, tc.completed, classifyNow)
			if got != tc.want {
				t.Fatalf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

// A due instant earlier today is overdue, not due_today: the comparison is
// against the full instant, with the calendar-day check applying only to
// instants that have not yet passed.
func TestClassifyDueDate_EarlierToday(t *testing.T) {
	due := time.Date(2026, 6, 15, 8, 0, 0, 0, time.Local)
	if got := ClassifyDueDate(&due, false, classifyNow); got != models.UrgencyOverdue {
		t.Fatalf("expected overdue for an instant earlier today, got %s", got)
	}
}
