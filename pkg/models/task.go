package models

import "time"

// Priority represents the urgency level assigned to a task.
// The zero value means no priority was set.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Recurrence represents the fixed interval at which a task repeats.
// The zero value means the task does not recur.
type Recurrence string

const (
	RecurDaily   Recurrence = "daily"
	RecurWeekly  Recurrence = "weekly"
	RecurMonthly Recurrence = "monthly"
)

// Urgency classifies how pressing a task's due date is relative to a
// reference instant. Derived by the classifier, never stored.
type Urgency string

const (
	UrgencyNone     Urgency = "none"
	UrgencyOverdue  Urgency = "overdue"
	UrgencyDueToday Urgency = "due_today"
	UrgencyUpcoming Urgency = "upcoming"
	UrgencyFuture   Urgency = "future"
)

// Task represents a single trackable unit of work. IDs are assigned
// sequentially by the store, starting at 1, and are never reused.
// All timestamps are naive local instants.
type Task struct {
	ID          int        `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool       `json:"completed" yaml:"completed"`
	Priority    Priority   `json:"priority,omitempty" yaml:"priority,omitempty"`
	Category    string     `json:"category,omitempty" yaml:"category,omitempty"`
	DueAt       *time.Time `json:"due_at,omitempty" yaml:"due_at,omitempty"`
	Recurrence  Recurrence `json:"recurrence,omitempty" yaml:"recurrence,omitempty"`
}

// Recurring reports whether the task has a recurrence rule set.
func (t Task) Recurring() bool {
	return t.Recurrence != ""
}
