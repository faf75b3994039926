// Package observability provides the append-only event log, metrics
// aggregation, and alert evaluation for taskwell. The task engine itself
// never logs; the console, HTTP, and MCP surfaces record events here after
// an operation succeeds.
package observability

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Event types recorded by the surfaces.
const (
	EventTaskCreated     = "task.created"
	EventTaskUpdated     = "task.updated"
	EventTaskCompleted   = "task.completed"
	EventTaskReopened    = "task.reopened"
	EventTaskRegenerated = "task.regenerated"
	EventTaskDeleted     = "task.deleted"
)

// Event is a single recorded task operation.
type Event struct {
	Time     time.Time `json:"time"`
	Type     string    `json:"type"`
	TaskID   int       `json:"task_id"`
	Title    string    `json:"title,omitempty"`
	Priority string    `json:"priority,omitempty"`
	Category string    `json:"category,omitempty"`
}

// EventFilter restricts which events Read returns. Zero-valued members are
// not applied.
type EventFilter struct {
	Since  *time.Time
	Type   string
	TaskID int
}

// EventLog defines the interface for recording and reading task events.
type EventLog interface {
	Record(event Event) error
	Read(filter EventFilter) ([]Event, error)
	Close() error
}

// jsonlEventLog implements EventLog with an append-only JSONL file.
type jsonlEventLog struct {
	mu   sync.Mutex
	path string
	file *os.File
}

// NewJSONLEventLog opens (creating if needed) a JSONL event log at path.
func NewJSONLEventLog(path string) (EventLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening event log: %w", err)
	}
	return &jsonlEventLog{path: path, file: f}, nil
}

// Record appends one JSON-encoded event line to the log.
func (l *jsonlEventLog) Record(event Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encoding event: %w", err)
	}
	line = append(line, '\n')
	if _, err := l.file.Write(line); err != nil {
		return fmt.Errorf("appending event: %w", err)
	}
	return nil
}

// Read scans the log file and returns the events matching the filter, in
// recorded order. A missing file yields no events rather than an error.
func (l *jsonlEventLog) Read(filter EventFilter) ([]Event, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening event log for reading: %w", err)
	}
	defer func() { _ = f.Close() }()

	var events []Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var event Event
		if err := json.Unmarshal(line, &event); err != nil {
			// Tolerate a torn final line from an interrupted write.
			continue
		}
		if matches(event, filter) {
			events = append(events, event)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning event log: %w", err)
	}
	return events, nil
}

// Close closes the underlying log file.
func (l *jsonlEventLog) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.file.Close()
}

func matches(event Event, filter EventFilter) bool {
	if filter.Since != nil && event.Time.Before(*filter.Since) {
		return false
	}
	if filter.Type != "" && event.Type != filter.Type {
		return false
	}
	if filter.TaskID != 0 && event.TaskID != filter.TaskID {
		return false
	}
	return true
}
