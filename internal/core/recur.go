package core

import (
	"time"

	"github.com/avierra/taskwell/pkg/models"
)

// NextDueAt computes the due instant for the successor of a recurring task.
// The calculation is based at completedAt rather than the original due
// instant, so a task completed late is not immediately rescheduled into the
// past. The successor always keeps currentDueAt's time of day.
//
// Daily and weekly rules step the calendar day of completedAt forward by 1
// and 7 days. The monthly rule schedules the next occurrence of
// currentDueAt's day-of-month strictly after completedAt, clamped to the
// last day of the target month (day 31 becomes Feb 28, or Feb 29 in a leap
// year).
//
// The result is undefined for an unset rule; callers must not invoke this
// for non-recurring tasks.
func NextDueAt(currentDueAt time.Time, rule models.Recurrence, completedAt time.Time) time.Time {
	hour, minute, sec := currentDueAt.Clock()
	ns := currentDueAt.Nanosecond()
	loc := completedAt.Location()

	switch rule {
	case models.RecurDaily:
		base := completedAt.AddDate(0, 0, 1)
		return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, sec, ns, loc)

	case models.RecurWeekly:
		base := completedAt.AddDate(0, 0, 7)
		return time.Date(base.Year(), base.Month(), base.Day(), hour, minute, sec, ns, loc)

	case models.RecurMonthly:
		day := currentDueAt.Day()
		next := monthlyOccurrence(completedAt.Year(), completedAt.Month(), day, hour, minute, sec, ns, loc)
		if !next.After(completedAt) {
			year, month := completedAt.Year(), completedAt.Month()+1
			next = monthlyOccurrence(year, month, day, hour, minute, sec, ns, loc)
		}
		return next
	}

	return currentDueAt
}

// monthlyOccurrence builds the instant for day-of-month day in the given
// month, clamping to the month's last day when day does not exist there.
// month may be out of range; time.Date normalizes it.
func monthlyOccurrence(year int, month time.Month, day, hour, minute, sec, ns int, loc *time.Location) time.Time {
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, sec, ns, loc)
}

// daysIn returns the number of days in the given month.
func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
