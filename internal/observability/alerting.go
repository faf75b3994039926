package observability

import (
	"fmt"
	"time"

	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/pkg/models"
)

// AlertSeverity represents the urgency of an alert.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert represents a triggered alert condition.
type Alert struct {
	Condition   string        `json:"condition"`
	Severity    AlertSeverity `json:"severity"`
	Message     string        `json:"message"`
	TriggeredAt time.Time     `json:"triggered_at"`
}

// AlertThresholds configures when alerts fire.
type AlertThresholds struct {
	MaxOpenTasks int
}

// DefaultAlertThresholds returns sensible defaults.
func DefaultAlertThresholds() AlertThresholds {
	return AlertThresholds{MaxOpenTasks: 25}
}

// AlertEngine evaluates alert conditions over a task snapshot. The snapshot
// and reference instant are supplied by the caller, so evaluation is pure
// and deterministic.
type AlertEngine interface {
	Evaluate(tasks []models.Task, now time.Time) []Alert
}

type alertEngine struct {
	thresholds AlertThresholds
}

// NewAlertEngine creates an AlertEngine with the given thresholds.
func NewAlertEngine(thresholds AlertThresholds) AlertEngine {
	return &alertEngine{thresholds: thresholds}
}

// Evaluate classifies every task in the snapshot and reports: overdue
// tasks (high severity), tasks due today (medium), and an open-task count
// above the configured maximum (low).
func (ae *alertEngine) Evaluate(tasks []models.Task, now time.Time) []Alert {
	var overdue, dueToday, open int
	for _, task := range tasks {
		if !task.Completed {
			open++
		}
		switch core.ClassifyDueDate(task.DueAt, task.Completed, now) {
		case models.UrgencyOverdue:
			overdue++
		case models.UrgencyDueToday:
			dueToday++
		}
	}

	var alerts []Alert
	if overdue > 0 {
		alerts = append(alerts, Alert{
			Condition:   "tasks_overdue",
			Severity:    SeverityHigh,
			Message:     fmt.Sprintf("%d task(s) overdue", overdue),
			TriggeredAt: now,
		})
	}
	if dueToday > 0 {
		alerts = append(alerts, Alert{
			Condition:   "tasks_due_today",
			Severity:    SeverityMedium,
			Message:     fmt.Sprintf("%d task(s) due today", dueToday),
			TriggeredAt: now,
		})
	}
	if ae.thresholds.MaxOpenTasks > 0 && open > ae.thresholds.MaxOpenTasks {
		alerts = append(alerts, Alert{
			Condition:   "too_many_open_tasks",
			Severity:    SeverityLow,
			Message:     fmt.Sprintf("%d open tasks exceed the configured maximum of %d", open, ae.thresholds.MaxOpenTasks),
			TriggeredAt: now,
		})
	}
	return alerts
}
