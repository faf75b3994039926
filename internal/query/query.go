// Package query provides stateless search, filter, and sort operations over
// a task snapshot. Nothing here touches a store: callers obtain a snapshot
// (typically from store.List) and chain operations in the order
// search, then filter, then sort.
package query

import (
	"sort"
	"strings"

	"github.com/avierra/taskwell/pkg/models"
)

// SortKey selects the ordering applied by Sort.
type SortKey string

const (
	SortByID       SortKey = "id"
	SortByPriority SortKey = "priority"
	SortByDueAt    SortKey = "due"
	SortByTitle    SortKey = "title"
	SortByCategory SortKey = "category"
)

// Filter constrains a snapshot. Nil members are not applied; set members
// combine with AND.
type Filter struct {
	Completed *bool
	Priority  *models.Priority
	Category  *string
}

// priorityRank orders priorities for sorting: high before medium before
// low, with unset last.
var priorityRank = map[models.Priority]int{
	models.PriorityHigh:   0,
	models.PriorityMedium: 1,
	models.PriorityLow:    2,
	"":                    3,
}

// Search returns the tasks whose title or description contains text,
// compared case-insensitively. Blank text returns the input unchanged.
// Priority, category, and dates are never matched.
func Search(tasks []models.Task, text string) []models.Task {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return tasks
	}

	var matched []models.Task
	for _, task := range tasks {
		if strings.Contains(strings.ToLower(task.Title), needle) ||
			strings.Contains(strings.ToLower(task.Description), needle) {
			matched = append(matched, task)
		}
	}
	return matched
}

// Apply returns the tasks matching every constraint set on the filter.
func Apply(tasks []models.Task, filter Filter) []models.Task {
	var matched []models.Task
	for _, task := range tasks {
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != nil && task.Priority != *filter.Priority {
			continue
		}
		if filter.Category != nil && task.Category != *filter.Category {
			continue
		}
		matched = append(matched, task)
	}
	return matched
}

// Sort returns a new slice ordered by the given key. The sort is stable
// and every key breaks ties by ascending ID. Unknown keys fall back to ID
// order.
func Sort(tasks []models.Task, key SortKey) []models.Task {
	sorted := make([]models.Task, len(tasks))
	copy(sorted, tasks)

	var less func(a, b models.Task) bool
	switch key {
	case SortByPriority:
		less = func(a, b models.Task) bool {
			if priorityRank[a.Priority] != priorityRank[b.Priority] {
				return priorityRank[a.Priority] < priorityRank[b.Priority]
			}
			return a.ID < b.ID
		}
	case SortByDueAt:
		less = func(a, b models.Task) bool {
			switch {
			case a.DueAt == nil && b.DueAt == nil:
				return a.ID < b.ID
			case a.DueAt == nil:
				return false
			case b.DueAt == nil:
				return true
			case !a.DueAt.Equal(*b.DueAt):
				return a.DueAt.Before(*b.DueAt)
			}
			return a.ID < b.ID
		}
	case SortByTitle:
		less = func(a, b models.Task) bool {
			at, bt := strings.ToLower(a.Title), strings.ToLower(b.Title)
			if at != bt {
				return at < bt
			}
			return a.ID < b.ID
		}
	case SortByCategory:
		less = func(a, b models.Task) bool {
			switch {
			case a.Category == "" && b.Category == "":
				return a.ID < b.ID
			case a.Category == "":
				return false
			case b.Category == "":
				return true
			case a.Category != b.Category:
				return a.Category < b.Category
			}
			return a.ID < b.ID
		}
	default:
		less = func(a, b models.Task) bool {
			return a.ID < b.ID
		}
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
