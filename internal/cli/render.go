package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/pkg/models"
)

// Style definitions for task rendering.
var (
	overdueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dueTodayStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	upcomingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))

	priorityHighStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	priorityMediumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	priorityLowStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("69"))
)

// statusIndicator renders the completion checkbox.
func statusIndicator(completed bool) string {
	if completed {
		return "☑"
	}
	return "☐"
}

// priorityBadge renders a colored [PRIORITY] badge, or "" for unset priority.
func priorityBadge(priority models.Priority) string {
	if priority == "" {
		return ""
	}
	label := fmt.Sprintf("[%s]", strings.ToUpper(string(priority)))
	switch priority {
	case models.PriorityHigh:
		return priorityHighStyle.Render(label)
	case models.PriorityMedium:
		return priorityMediumStyle.Render(label)
	case models.PriorityLow:
		return priorityLowStyle.Render(label)
	default:
		return label
	}
}

// dueDateIndicator renders the due date colored by urgency, or "" when the
// task has no due date or is complete.
func dueDateIndicator(task models.Task, now time.Time) string {
	if task.DueAt == nil {
		return ""
	}
	switch core.ClassifyDueDate(task.DueAt, task.Completed, now) {
	case models.UrgencyOverdue:
		return overdueStyle.Render("OVERDUE")
	case models.UrgencyDueToday:
		return dueTodayStyle.Render("DUE TODAY")
	case models.UrgencyUpcoming:
		return upcomingStyle.Render("Due: " + task.DueAt.Format("2006-01-02 15:04"))
	case models.UrgencyFuture:
		return "Due: " + task.DueAt.Format("2006-01-02")
	default:
		return ""
	}
}

// formatTaskList formats tasks for console display.
func formatTaskList(tasks []models.Task, now time.Time) string {
	lines := []string{"=== Task List ==="}

	if len(tasks) == 0 {
		lines = append(lines, "No tasks found. Add a task to get started!")
	}

	for _, task := range tasks {
		parts := []string{fmt.Sprintf("[%d]", task.ID), statusIndicator(task.Completed)}
		if badge := priorityBadge(task.Priority); badge != "" {
			parts = append(parts, badge)
		}
		parts = append(parts, task.Title)
		if indicator := dueDateIndicator(task, now); indicator != "" {
			parts = append(parts, indicator)
		}
		lines = append(lines, strings.Join(parts, " "))

		var meta []string
		if task.Category != "" {
			meta = append(meta, "Category: "+task.Category)
		}
		if task.Description != "" {
			meta = append(meta, "Description: "+task.Description)
		}
		if task.Recurring() {
			meta = append(meta, "Recurring: "+string(task.Recurrence))
		}
		if len(meta) > 0 {
			lines = append(lines, "    "+strings.Join(meta, " | "))
		}
	}

	lines = append(lines, "=== End of List ===")
	return strings.Join(lines, "\n")
}
