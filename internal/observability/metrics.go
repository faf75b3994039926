package observability

import (
	"fmt"
	"time"
)

// Metrics aggregates task activity derived from the event log.
type Metrics struct {
	TasksCreated     int            `json:"tasks_created"`
	TasksCompleted   int            `json:"tasks_completed"`
	TasksReopened    int            `json:"tasks_reopened"`
	TasksRegenerated int            `json:"tasks_regenerated"`
	TasksDeleted     int            `json:"tasks_deleted"`
	ByPriority       map[string]int `json:"by_priority"`
	ByCategory       map[string]int `json:"by_category"`
	EventCount       int            `json:"event_count"`
	OldestEvent      *time.Time     `json:"oldest_event,omitempty"`
	NewestEvent      *time.Time     `json:"newest_event,omitempty"`
}

// MetricsCalculator derives metrics from the event log.
type MetricsCalculator interface {
	Calculate(since time.Time) (*Metrics, error)
}

type metricsCalculator struct {
	eventLog EventLog
}

// NewMetricsCalculator creates a MetricsCalculator reading from eventLog.
func NewMetricsCalculator(eventLog EventLog) MetricsCalculator {
	return &metricsCalculator{eventLog: eventLog}
}

// Calculate reads every event since the given instant and aggregates it.
// Priority and category tallies count creations only, so regenerated
// successors show up as fresh work.
func (mc *metricsCalculator) Calculate(since time.Time) (*Metrics, error) {
	events, err := mc.eventLog.Read(EventFilter{Since: &since})
	if err != nil {
		return nil, fmt.Errorf("reading events for metrics: %w", err)
	}

	m := &Metrics{
		ByPriority: make(map[string]int),
		ByCategory: make(map[string]int),
		EventCount: len(events),
	}

	for i, event := range events {
		if i == 0 {
			t := event.Time
			m.OldestEvent = &t
		}
		t := event.Time
		m.NewestEvent = &t

		switch event.Type {
		case EventTaskCreated, EventTaskRegenerated:
			if event.Type == EventTaskCreated {
				m.TasksCreated++
			} else {
				m.TasksRegenerated++
			}
			priority := event.Priority
			if priority == "" {
				priority = "unset"
			}
			m.ByPriority[priority]++
			category := event.Category
			if category == "" {
				category = "uncategorized"
			}
			m.ByCategory[category]++
		case EventTaskCompleted:
			m.TasksCompleted++
		case EventTaskReopened:
			m.TasksReopened++
		case EventTaskDeleted:
			m.TasksDeleted++
		}
	}

	return m, nil
}
