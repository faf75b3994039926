package observability

import (
	"testing"
	"time"
)

func TestMetrics_Calculate(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	events := []Event{
		{Time: base, Type: EventTaskCreated, TaskID: 1, Priority: "high", Category: "Work"},
		{Time: base.Add(time.Minute), Type: EventTaskCreated, TaskID: 2},
		{Time: base.Add(2 * time.Minute), Type: EventTaskCompleted, TaskID: 1},
		{Time: base.Add(3 * time.Minute), Type: EventTaskRegenerated, TaskID: 3, Priority: "high", Category: "Work"},
		{Time: base.Add(4 * time.Minute), Type: EventTaskDeleted, TaskID: 2},
		{Time: base.Add(5 * time.Minute), Type: EventTaskReopened, TaskID: 1},
	}
	for _, event := range events {
		if err := log.Record(event); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	m, err := NewMetricsCalculator(log).Calculate(base.Add(-time.Hour))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}

	if m.TasksCreated != 2 || m.TasksCompleted != 1 || m.TasksRegenerated != 1 ||
		m.TasksDeleted != 1 || m.TasksReopened != 1 {
		t.Fatalf("unexpected counts: %+v", m)
	}
	if m.EventCount != 6 {
		t.Fatalf("expected 6 events, got %d", m.EventCount)
	}
	if m.ByPriority["high"] != 2 || m.ByPriority["unset"] != 1 {
		t.Fatalf("unexpected priority tallies: %v", m.ByPriority)
	}
	if m.ByCategory["Work"] != 2 || m.ByCategory["uncategorized"] != 1 {
		t.Fatalf("unexpected category tallies: %v", m.ByCategory)
	}
	if m.OldestEvent == nil || !m.OldestEvent.Equal(base) {
		t.Fatalf("unexpected oldest event: %v", m.OldestEvent)
	}
	if m.NewestEvent == nil || !m.NewestEvent.Equal(base.Add(5*time.Minute)) {
		t.Fatalf("unexpected newest event: %v", m.NewestEvent)
	}
}

func TestMetrics_SinceWindow(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	old := Event{Time: base.AddDate(0, 0, -30), Type: EventTaskCreated, TaskID: 1}
	recent := Event{Time: base, Type: EventTaskCreated, TaskID: 2}
	for _, event := range []Event{old, recent} {
		if err := log.Record(event); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	m, err := NewMetricsCalculator(log).Calculate(base.AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	if m.TasksCreated != 1 {
		t.Fatalf("expected only the recent creation, got %d", m.TasksCreated)
	}
}
