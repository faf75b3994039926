package observability

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestEventLog(t *testing.T) EventLog {
	t.Helper()
	log, err := NewJSONLEventLog(filepath.Join(t.TempDir(), "events.jsonl"))
	if err != nil {
		t.Fatalf("NewJSONLEventLog failed: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func TestEventLog_RoundTrip(t *testing.T) {
	log := newTestEventLog(t)

	want := Event{
		Time:     time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		Type:     EventTaskCreated,
		TaskID:   1,
		Title:    "write report",
		Priority: "high",
		Category: "Work",
	}
	if err := log.Record(want); err != nil {
		t.Fatalf("Record failed: %v", err)
	}

	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	got := events[0]
	if got.Type != want.Type || got.TaskID != want.TaskID || got.Title != want.Title {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestEventLog_FilterByTypeAndTask(t *testing.T) {
	log := newTestEventLog(t)
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, typ := range []string{EventTaskCreated, EventTaskCompleted, EventTaskCreated} {
		event := Event{Time: base.Add(time.Duration(i) * time.Minute), Type: typ, TaskID: i + 1}
		if err := log.Record(event); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	created, err := log.Read(EventFilter{Type: EventTaskCreated})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(created) != 2 {
		t.Fatalf("expected 2 created events, got %d", len(created))
	}

	byTask, err := log.Read(EventFilter{TaskID: 2})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(byTask) != 1 || byTask[0].Type != EventTaskCompleted {
		t.Fatalf("expected the completion event for task 2, got %+v", byTask)
	}

	since := base.Add(90 * time.Second)
	recent, err := log.Read(EventFilter{Since: &since})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent event, got %d", len(recent))
	}
}

func TestEventLog_MissingFileReadsEmpty(t *testing.T) {
	log := &jsonlEventLog{path: filepath.Join(t.TempDir(), "absent.jsonl")}
	events, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if events != nil {
		t.Fatalf("expected no events, got %d", len(events))
	}
}
