package core

import (
	"time"

	"github.com/avierra/taskwell/pkg/models"
)

// upcomingWindow is the horizon within which an incomplete future task is
// considered upcoming rather than merely future.
const upcomingWindow = 72 * time.Hour

// ClassifyDueDate maps a task's due instant and completion flag to an
// urgency category relative to now. Completed tasks and tasks without a due
// date are never urgent. The function is total: exactly one category is
// returned for every input combination.
func ClassifyDueDate(dueAt *time.Time, completed bool, now time.Time) models.Urgency {
	if completed || dueAt == nil {
		return models.UrgencyNone
	}
	if dueAt.Before(now) {
		return models.UrgencyOverdue
	}
	if sameCalendarDay(*dueAt, now) {
		return models.UrgencyDueToday
	}
	if dueAt.Sub(now) <= upcomingWindow {
		return models.UrgencyUpcoming
	}
	return models.UrgencyFuture
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
